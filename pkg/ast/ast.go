// Package ast defines the expression trees produced by the Minitalk parser.
package ast

import (
	"fmt"
	"strings"
)

// Stmt represents a statement in a program or block body.
type Stmt interface {
	stmtNode()
	String() string
}

// Expr represents an expression.
type Expr interface {
	exprNode()
	String() string
}

// Program is a parsed top-level unit: optional temporary declarations
// followed by a statement sequence.
type Program struct {
	Temps []string
	Stmts []Stmt
}

// String reproduces the program as source text.
func (p *Program) String() string {
	var sb strings.Builder
	if len(p.Temps) > 0 {
		sb.WriteString("| " + strings.Join(p.Temps, " ") + " | ")
	}
	writeStmts(&sb, p.Stmts)
	return sb.String()
}

func writeStmts(sb *strings.Builder, stmts []Stmt) {
	for i, s := range stmts {
		if i > 0 {
			sb.WriteString(". ")
		}
		sb.WriteString(s.String())
	}
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// Assign represents: name := expr
type Assign struct {
	Name  string
	Value Expr
}

func (*Assign) stmtNode() {}

func (a *Assign) String() string { return a.Name + " := " + a.Value.String() }

// Return represents an escaping return: ^ expr
type Return struct {
	Value Expr
}

func (*Return) stmtNode() {}

func (r *Return) String() string { return "^" + r.Value.String() }

// ExprStmt wraps an expression evaluated for its value.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode() {}

func (e *ExprStmt) String() string { return e.Expr.String() }

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// IntLit represents an integer literal.
type IntLit struct {
	Value int64
}

func (*IntLit) exprNode() {}

func (l *IntLit) String() string { return fmt.Sprintf("%d", l.Value) }

// FloatLit represents a float literal.
type FloatLit struct {
	Value float64
}

func (*FloatLit) exprNode() {}

func (l *FloatLit) String() string { return fmt.Sprintf("%g", l.Value) }

// StringLit represents a quoted string literal.
type StringLit struct {
	Value string
}

func (*StringLit) exprNode() {}

func (l *StringLit) String() string {
	return "'" + strings.ReplaceAll(l.Value, "'", "''") + "'"
}

// SymbolLit represents a symbol literal: #name
type SymbolLit struct {
	Name string
}

func (*SymbolLit) exprNode() {}

func (l *SymbolLit) String() string { return "#" + l.Name }

// ArrayLit represents a dynamic array expression: { e1. e2. e3 }
type ArrayLit struct {
	Elements []Expr
}

func (*ArrayLit) exprNode() {}

func (l *ArrayLit) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ". ") + "}"
}

// Ident represents a variable reference.
type Ident struct {
	Name string
}

func (*Ident) exprNode() {}

func (i *Ident) String() string { return i.Name }

// SelfExpr represents the implicit receiver.
type SelfExpr struct{}

func (*SelfExpr) exprNode() {}

func (*SelfExpr) String() string { return "self" }

// NilLit represents the nil literal.
type NilLit struct{}

func (*NilLit) exprNode() {}

func (*NilLit) String() string { return "nil" }

// BoolLit represents true or false.
type BoolLit struct {
	Value bool
}

func (*BoolLit) exprNode() {}

func (l *BoolLit) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}

// BlockLit represents a block literal: [:p1 :p2 | | t1 t2 | body]
type BlockLit struct {
	Params []string
	Temps  []string
	Body   []Stmt
}

func (*BlockLit) exprNode() {}

func (b *BlockLit) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	if len(b.Params) > 0 {
		for _, p := range b.Params {
			sb.WriteString(":" + p + " ")
		}
		sb.WriteString("| ")
	}
	if len(b.Temps) > 0 {
		sb.WriteString("| " + strings.Join(b.Temps, " ") + " | ")
	}
	writeStmts(&sb, b.Body)
	sb.WriteString("]")
	return sb.String()
}

// Send represents a message send: unary, binary, or keyword.
type Send struct {
	Receiver Expr
	Selector string
	Args     []Expr
}

func (*Send) exprNode() {}

func (s *Send) String() string {
	recv := s.Receiver.String()
	if needsParens(s.Receiver) {
		recv = "(" + recv + ")"
	}
	if len(s.Args) == 0 {
		return recv + " " + s.Selector
	}
	if !strings.Contains(s.Selector, ":") {
		// Binary selector
		return recv + " " + s.Selector + " " + argString(s.Args[0])
	}
	parts := strings.SplitAfter(s.Selector, ":")
	var sb strings.Builder
	sb.WriteString(recv)
	for i, arg := range s.Args {
		sb.WriteString(" " + parts[i] + " " + argString(arg))
	}
	return sb.String()
}

func argString(e Expr) string {
	if needsParens(e) {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// needsParens reports whether an expression must be parenthesized when it
// appears as a receiver or argument of another send.
func needsParens(e Expr) bool {
	_, ok := e.(*Send)
	return ok
}
