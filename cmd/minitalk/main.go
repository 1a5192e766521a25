// Minitalk CLI - runs Minitalk scripts and the interactive REPL.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/minitalk/interp"
	"github.com/chazu/minitalk/manifest"
	"github.com/chazu/minitalk/pkg/ast"
	"github.com/chazu/minitalk/pkg/parser"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	interactive := flag.Bool("i", false, "Start interactive REPL")
	evalExpr := flag.String("e", "", "Evaluate an expression and print its result")
	verbosity := flag.Int("v", 0, "Log verbosity (0 = quiet)")
	loadImage := flag.String("load-image", "", "Restore globals from an image file before running")
	saveImage := flag.String("save-image", "", "Snapshot globals to an image file after running")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: minitalk [options] [script.mt]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a Minitalk script, or the entry script of the nearest\n")
		fmt.Fprintf(os.Stderr, "minitalk.toml, or the REPL when neither is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  minitalk -i                      # Start REPL\n")
		fmt.Fprintf(os.Stderr, "  minitalk script.mt               # Run a script\n")
		fmt.Fprintf(os.Stderr, "  minitalk -e '3 + 4 printNl'      # One-liner\n")
		fmt.Fprintf(os.Stderr, "  minitalk -save-image s.image -i  # Snapshot session on exit\n")
	}
	flag.Parse()

	// Manifest settings apply where flags were not given.
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	level := *verbosity
	if level == 0 && m != nil {
		level = m.Log.Verbosity
	}
	commonlog.Configure(level, nil)

	i := interp.NewInterp()

	// The session activation: every script, expression, and REPL input
	// evaluates in this one frame, so temps and blocks persist across them.
	_, top, err := i.Evaluate(&ast.Program{}, interp.Nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *loadImage != "" {
		if err := i.LoadImage(*loadImage, top, parser.ParseBody); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	ranSomething := false

	if *evalExpr != "" {
		v, ok := evalInput(i, top, *evalExpr)
		if !ok {
			os.Exit(1)
		}
		fmt.Println(i.PrintString(v))
		ranSomething = true
	}

	script := flag.Arg(0)
	if script == "" && *evalExpr == "" && !*interactive && m != nil {
		if _, err := os.Stat(m.EntryPath()); err == nil {
			script = m.EntryPath()
		}
	}
	if script != "" {
		if !runFile(i, top, script) {
			os.Exit(1)
		}
		ranSomething = true
	}

	if *interactive || !ranSomething {
		runREPL(i, top)
	}

	if *saveImage != "" {
		if err := i.SaveImage(*saveImage); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// runFile evaluates a script file in the session activation.
func runFile(i *interp.Interp, top *interp.Activation, path string) bool {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	_, ok := evalInput(i, top, string(src))
	return ok
}

// evalInput parses and evaluates source in the session activation.
func evalInput(i *interp.Interp, top *interp.Activation, src string) (interp.Value, bool) {
	prog, err := parser.Parse(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		return interp.Nil, false
	}
	v, err := i.EvaluateIn(prog, top)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return interp.Nil, false
	}
	return v, true
}

// runREPL starts an interactive read-eval-print loop.
func runREPL(i *interp.Interp, top *interp.Activation) {
	fmt.Println("Minitalk REPL (type 'exit' to quit, ':help' for commands)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			fmt.Print(">> ")
		} else {
			fmt.Print(".. ")
		}

		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := scanner.Text()

		if buffer.Len() == 0 && (line == "exit" || line == "quit") {
			break
		}
		if buffer.Len() == 0 && strings.HasPrefix(line, ":") {
			handleCommand(i, top, line)
			continue
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")
		src := buffer.String()

		// Unbalanced brackets mean the input continues on the next line.
		if !balanced(src) {
			continue
		}
		buffer.Reset()

		if strings.TrimSpace(src) == "" {
			continue
		}

		prog, err := parser.Parse(src)
		if err != nil {
			fmt.Printf("Parse error: %v\n", err)
			continue
		}
		v, err := i.EvaluateIn(prog, top)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Println(i.PrintString(v))
	}
}

// handleCommand processes REPL commands starting with ':'.
func handleCommand(i *interp.Interp, top *interp.Activation, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":help":
		fmt.Println("Commands:")
		fmt.Println("  :help              Show this help")
		fmt.Println("  :globals           List global bindings")
		fmt.Println("  :save <path>       Snapshot globals to an image file")
		fmt.Println("  :load <path>       Restore globals from an image file")
		fmt.Println("  exit, quit         Leave the REPL")

	case ":globals":
		names := i.GlobalNames()
		if len(names) == 0 {
			fmt.Println("(no globals)")
			return
		}
		for _, name := range names {
			v, _ := i.Global(name)
			fmt.Printf("  %s = %s\n", name, i.PrintString(v))
		}

	case ":save":
		if len(fields) != 2 {
			fmt.Println("Usage: :save <path>")
			return
		}
		if err := i.SaveImage(fields[1]); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Saved %s\n", fields[1])

	case ":load":
		if len(fields) != 2 {
			fmt.Println("Usage: :load <path>")
			return
		}
		if err := i.LoadImage(fields[1], top, parser.ParseBody); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Loaded %s\n", fields[1])

	default:
		fmt.Printf("Unknown command %s (try :help)\n", fields[0])
	}
}

// balanced reports whether brackets, braces, and parens are closed,
// ignoring string and comment content.
func balanced(src string) bool {
	depth := 0
	inString := false
	inComment := false
	for _, r := range src {
		switch {
		case inString:
			if r == '\'' {
				inString = false
			}
		case inComment:
			if r == '"' {
				inComment = false
			}
		case r == '\'':
			inString = true
		case r == '"':
			inComment = true
		case r == '[' || r == '(' || r == '{':
			depth++
		case r == ']' || r == ')' || r == '}':
			depth--
		}
	}
	return depth <= 0 && !inString && !inComment
}
