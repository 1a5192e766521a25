// Package parser converts Minitalk source text into expression trees.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/minitalk/pkg/ast"
)

// Parser is a recursive-descent parser over the lexer's token stream.
// Precedence follows Smalltalk: unary binds tightest, then binary, then
// keyword; all three associate left.
type Parser struct {
	lex  *lexer
	tok  Token
	peek Token
}

// Parse parses a complete program: optional leading temporary
// declarations followed by dot-separated statements.
func Parse(src string) (*ast.Program, error) {
	p := &Parser{lex: newLexer(src)}
	if err := p.init(); err != nil {
		return nil, err
	}

	prog := &ast.Program{}
	temps, err := p.parseTempDecls()
	if err != nil {
		return nil, err
	}
	prog.Temps = temps

	stmts, err := p.parseStmts(TokenEOF)
	if err != nil {
		return nil, err
	}
	prog.Stmts = stmts

	if p.tok.Type != TokenEOF {
		return nil, p.errorf("unexpected %q after program", p.tok.Value)
	}
	return prog, nil
}

// ParseBody parses a statement sequence with no temporary declarations,
// as stored for block bodies in image snapshots.
func ParseBody(src string) ([]ast.Stmt, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return prog.Stmts, nil
}

func (p *Parser) init() error {
	if err := p.advance(); err != nil {
		return err
	}
	return p.advance()
}

func (p *Parser) advance() error {
	p.tok = p.peek
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.peek = t
	return nil
}

func (p *Parser) errorf(format string, args ...any) *Error {
	return &Error{Line: p.tok.Line, Col: p.tok.Col,
		Msg: fmt.Sprintf(format, args...)}
}

// parseTempDecls parses | a b c | at the start of a program or block body.
func (p *Parser) parseTempDecls() ([]string, error) {
	if p.tok.Type != TokenPipe {
		return nil, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var names []string
	for p.tok.Type == TokenIdentifier {
		names = append(names, p.tok.Value)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.Type != TokenPipe {
		return nil, p.errorf("expected '|' to close temporary declarations")
	}
	return names, p.advance()
}

// parseStmts parses dot-separated statements up to the given closer.
// Trailing dots are allowed.
func (p *Parser) parseStmts(closer TokenType) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for p.tok.Type != closer && p.tok.Type != TokenEOF {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		if p.tok.Type == TokenDot {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return stmts, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	if p.tok.Type == TokenCaret {
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: e}, nil
	}

	if p.tok.Type == TokenIdentifier && p.peek.Type == TokenAssign {
		name := p.tok.Value
		if err := p.advance(); err != nil { // identifier
			return nil, err
		}
		if err := p.advance(); err != nil { // :=
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Name: name, Value: e}, nil
	}

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expr: e}, nil
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseKeywordExpr()
}

// parseKeywordExpr parses the lowest-precedence form: a binary expression
// optionally followed by keyword parts, which concatenate into a single
// selector with one argument per part.
func (p *Parser) parseKeywordExpr() (ast.Expr, error) {
	recv, err := p.parseBinaryExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != TokenKeyword {
		return recv, nil
	}

	var selector strings.Builder
	var args []ast.Expr
	for p.tok.Type == TokenKeyword {
		selector.WriteString(p.tok.Value)
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseBinaryExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &ast.Send{Receiver: recv, Selector: selector.String(), Args: args}, nil
}

func (p *Parser) parseBinaryExpr() (ast.Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenBinary || p.tok.Type == TokenPipe {
		op := p.tok.Value
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.Send{Receiver: left, Selector: op, Args: []ast.Expr{right}}
	}
	return left, nil
}

func (p *Parser) parseUnaryExpr() (ast.Expr, error) {
	recv, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenIdentifier && !isReserved(p.tok.Value) {
		recv = &ast.Send{Receiver: recv, Selector: p.tok.Value}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return recv, nil
}

func isReserved(name string) bool {
	switch name {
	case "self", "nil", "true", "false":
		return true
	}
	return false
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.tok.Type {
	case TokenInt:
		n, err := strconv.ParseInt(p.tok.Value, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", p.tok.Value)
		}
		return &ast.IntLit{Value: n}, p.advance()

	case TokenFloat:
		f, err := strconv.ParseFloat(p.tok.Value, 64)
		if err != nil {
			return nil, p.errorf("invalid float literal %q", p.tok.Value)
		}
		return &ast.FloatLit{Value: f}, p.advance()

	case TokenString:
		s := p.tok.Value
		return &ast.StringLit{Value: s}, p.advance()

	case TokenSymbol:
		s := p.tok.Value
		return &ast.SymbolLit{Name: s}, p.advance()

	case TokenIdentifier:
		name := p.tok.Value
		switch name {
		case "self":
			return &ast.SelfExpr{}, p.advance()
		case "nil":
			return &ast.NilLit{}, p.advance()
		case "true":
			return &ast.BoolLit{Value: true}, p.advance()
		case "false":
			return &ast.BoolLit{Value: false}, p.advance()
		}
		return &ast.Ident{Name: name}, p.advance()

	case TokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.Type != TokenRParen {
			return nil, p.errorf("expected ')', got %q", p.tok.Value)
		}
		return e, p.advance()

	case TokenLBracket:
		return p.parseBlock()

	case TokenLBrace:
		return p.parseDynamicArray()

	case TokenHashParen:
		return p.parseLiteralArray()

	default:
		return nil, p.errorf("unexpected %q", p.tok.Value)
	}
}

// parseBlock parses a block literal: [:a :b | | t | stmts]
func (p *Parser) parseBlock() (ast.Expr, error) {
	if err := p.advance(); err != nil { // '['
		return nil, err
	}

	block := &ast.BlockLit{}
	if p.tok.Type == TokenBlockParam {
		for p.tok.Type == TokenBlockParam {
			block.Params = append(block.Params, p.tok.Value)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.tok.Type != TokenPipe {
			return nil, p.errorf("expected '|' after block parameters")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	temps, err := p.parseTempDecls()
	if err != nil {
		return nil, err
	}
	block.Temps = temps

	stmts, err := p.parseStmts(TokenRBracket)
	if err != nil {
		return nil, err
	}
	block.Body = stmts

	if p.tok.Type != TokenRBracket {
		return nil, p.errorf("expected ']' to close block, got %q", p.tok.Value)
	}
	return block, p.advance()
}

// parseDynamicArray parses { e1. e2. e3 }
func (p *Parser) parseDynamicArray() (ast.Expr, error) {
	if err := p.advance(); err != nil { // '{'
		return nil, err
	}
	arr := &ast.ArrayLit{}
	for p.tok.Type != TokenRBrace && p.tok.Type != TokenEOF {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, e)
		if p.tok.Type == TokenDot {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if p.tok.Type != TokenRBrace {
		return nil, p.errorf("expected '}' to close array, got %q", p.tok.Value)
	}
	return arr, p.advance()
}

// parseLiteralArray parses #(lit lit lit); elements are literals or
// nested literal arrays, and bare identifiers read as symbols.
func (p *Parser) parseLiteralArray() (ast.Expr, error) {
	if err := p.advance(); err != nil { // '#('
		return nil, err
	}
	arr := &ast.ArrayLit{}
	for p.tok.Type != TokenRParen && p.tok.Type != TokenEOF {
		var el ast.Expr
		switch p.tok.Type {
		case TokenInt:
			n, err := strconv.ParseInt(p.tok.Value, 10, 64)
			if err != nil {
				return nil, p.errorf("invalid integer literal %q", p.tok.Value)
			}
			el = &ast.IntLit{Value: n}
		case TokenFloat:
			f, err := strconv.ParseFloat(p.tok.Value, 64)
			if err != nil {
				return nil, p.errorf("invalid float literal %q", p.tok.Value)
			}
			el = &ast.FloatLit{Value: f}
		case TokenString:
			el = &ast.StringLit{Value: p.tok.Value}
		case TokenSymbol:
			el = &ast.SymbolLit{Name: p.tok.Value}
		case TokenIdentifier:
			switch p.tok.Value {
			case "nil":
				el = &ast.NilLit{}
			case "true":
				el = &ast.BoolLit{Value: true}
			case "false":
				el = &ast.BoolLit{Value: false}
			default:
				el = &ast.SymbolLit{Name: p.tok.Value}
			}
		case TokenHashParen:
			nested, err := p.parseLiteralArray()
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, nested)
			continue
		default:
			return nil, p.errorf("unexpected %q in literal array", p.tok.Value)
		}
		arr.Elements = append(arr.Elements, el)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.Type != TokenRParen {
		return nil, p.errorf("expected ')' to close literal array")
	}
	return arr, p.advance()
}
