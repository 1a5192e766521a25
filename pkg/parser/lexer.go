package parser

import (
	"fmt"
	"strings"
	"unicode"
)

// ---------------------------------------------------------------------------
// Tokens
// ---------------------------------------------------------------------------

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdentifier
	TokenKeyword    // identifier followed by colon: value:
	TokenBlockParam // colon followed by identifier: :x
	TokenInt
	TokenFloat
	TokenString
	TokenSymbol // #name or #name:name:
	TokenBinary // run of binary characters: + - <= ~= // \\ ...
	TokenAssign // :=
	TokenCaret  // ^
	TokenPipe   // |
	TokenDot    // .
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenHashParen // #(
)

// Token is one lexical token with its source position.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// Error is a lexing or parsing error with a source position.
type Error struct {
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// binaryChars are the characters that form binary selectors.
const binaryChars = "+-*/\\~<>=&|@%,?!"

func isBinaryChar(r rune) bool {
	return strings.ContainsRune(binaryChars, r)
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ---------------------------------------------------------------------------
// Lexer
// ---------------------------------------------------------------------------

type lexer struct {
	src  []rune
	pos  int
	line int
	col  int

	// prev tracks whether the previous token can end an operand, which
	// disambiguates negative literals from binary minus.
	prevOperand bool
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1, col: 1}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) errorf(format string, args ...any) *Error {
	return &Error{Line: l.line, Col: l.col, Msg: fmt.Sprintf(format, args...)}
}

// skip consumes whitespace and "double-quoted" comments.
func (l *lexer) skip() error {
	for l.pos < len(l.src) {
		r := l.peek()
		if unicode.IsSpace(r) {
			l.advance()
			continue
		}
		if r == '"' {
			line, col := l.line, l.col
			l.advance()
			for {
				if l.pos >= len(l.src) {
					return &Error{Line: line, Col: col, Msg: "unterminated comment"}
				}
				if l.advance() == '"' {
					break
				}
			}
			continue
		}
		return nil
	}
	return nil
}

// next returns the next token.
func (l *lexer) next() (Token, error) {
	if err := l.skip(); err != nil {
		return Token{}, err
	}
	if l.pos >= len(l.src) {
		return l.token(TokenEOF, ""), nil
	}

	line, col := l.line, l.col
	r := l.peek()

	switch {
	case isIdentStart(r):
		return l.lexIdentifier(line, col)

	case unicode.IsDigit(r):
		return l.lexNumber(line, col, false)

	case r == '-' && unicode.IsDigit(l.peekAt(1)) && !l.prevOperand:
		l.advance()
		return l.lexNumber(line, col, true)

	case r == '\'':
		return l.lexString(line, col)

	case r == '#':
		l.advance()
		if l.peek() == '(' {
			l.advance()
			return l.emit(TokenHashParen, "#(", line, col, false), nil
		}
		return l.lexSymbol(line, col)

	case r == ':':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return l.emit(TokenAssign, ":=", line, col, false), nil
		}
		if !isIdentStart(l.peek()) {
			return Token{}, &Error{Line: line, Col: col, Msg: "expected identifier after ':'"}
		}
		var sb strings.Builder
		for l.pos < len(l.src) && isIdentPart(l.peek()) {
			sb.WriteRune(l.advance())
		}
		return l.emit(TokenBlockParam, sb.String(), line, col, false), nil

	case r == '^':
		l.advance()
		return l.emit(TokenCaret, "^", line, col, false), nil

	case r == '.':
		l.advance()
		return l.emit(TokenDot, ".", line, col, false), nil

	case r == '(':
		l.advance()
		return l.emit(TokenLParen, "(", line, col, false), nil

	case r == ')':
		l.advance()
		return l.emit(TokenRParen, ")", line, col, true), nil

	case r == '[':
		l.advance()
		return l.emit(TokenLBracket, "[", line, col, false), nil

	case r == ']':
		l.advance()
		return l.emit(TokenRBracket, "]", line, col, true), nil

	case r == '{':
		l.advance()
		return l.emit(TokenLBrace, "{", line, col, false), nil

	case r == '}':
		l.advance()
		return l.emit(TokenRBrace, "}", line, col, true), nil

	case isBinaryChar(r):
		var sb strings.Builder
		for l.pos < len(l.src) && isBinaryChar(l.peek()) {
			sb.WriteRune(l.advance())
		}
		op := sb.String()
		if op == "|" {
			return l.emit(TokenPipe, "|", line, col, false), nil
		}
		return l.emit(TokenBinary, op, line, col, false), nil

	default:
		return Token{}, &Error{Line: line, Col: col,
			Msg: fmt.Sprintf("unexpected character %q", r)}
	}
}

func (l *lexer) lexIdentifier(line, col int) (Token, error) {
	var sb strings.Builder
	for l.pos < len(l.src) && isIdentPart(l.peek()) {
		sb.WriteRune(l.advance())
	}
	// identifier: is a keyword token unless it is an assignment (:=)
	if l.peek() == ':' && l.peekAt(1) != '=' {
		l.advance()
		return l.emit(TokenKeyword, sb.String()+":", line, col, false), nil
	}
	return l.emit(TokenIdentifier, sb.String(), line, col, true), nil
}

func (l *lexer) lexNumber(line, col int, negative bool) (Token, error) {
	var sb strings.Builder
	if negative {
		sb.WriteRune('-')
	}
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		sb.WriteRune(l.advance())
	}
	if l.peek() == '.' && unicode.IsDigit(l.peekAt(1)) {
		sb.WriteRune(l.advance())
		for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
			sb.WriteRune(l.advance())
		}
		return l.emit(TokenFloat, sb.String(), line, col, true), nil
	}
	return l.emit(TokenInt, sb.String(), line, col, true), nil
}

func (l *lexer) lexString(line, col int) (Token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, &Error{Line: line, Col: col, Msg: "unterminated string"}
		}
		r := l.advance()
		if r == '\'' {
			// '' is an escaped quote
			if l.peek() == '\'' {
				l.advance()
				sb.WriteRune('\'')
				continue
			}
			break
		}
		sb.WriteRune(r)
	}
	return l.emit(TokenString, sb.String(), line, col, true), nil
}

func (l *lexer) lexSymbol(line, col int) (Token, error) {
	if !isIdentStart(l.peek()) {
		return Token{}, &Error{Line: line, Col: col, Msg: "expected symbol name after '#'"}
	}
	var sb strings.Builder
	for l.pos < len(l.src) && isIdentPart(l.peek()) {
		sb.WriteRune(l.advance())
	}
	// keyword symbols: #value:value:
	for l.peek() == ':' {
		sb.WriteRune(l.advance())
		for l.pos < len(l.src) && isIdentPart(l.peek()) {
			sb.WriteRune(l.advance())
		}
	}
	return l.emit(TokenSymbol, sb.String(), line, col, true), nil
}

func (l *lexer) token(t TokenType, v string) Token {
	return Token{Type: t, Value: v, Line: l.line, Col: l.col}
}

func (l *lexer) emit(t TokenType, v string, line, col int, operand bool) Token {
	l.prevOperand = operand
	return Token{Type: t, Value: v, Line: line, Col: col}
}
