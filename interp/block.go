package interp

import "github.com/chazu/minitalk/pkg/ast"

// ---------------------------------------------------------------------------
// BlockObject: a closure over its home activation
// ---------------------------------------------------------------------------

// BlockObject pairs a parameter list and body with the activation record
// that was executing when the block literal was evaluated. The home
// reference is fixed at creation and never changes, no matter where or how
// often the block is later invoked. Evaluating the same literal again
// (for example on the next loop iteration) produces a new BlockObject with
// whatever activation is current at that point.
type BlockObject struct {
	// Params are the formal parameter names, in order.
	Params []string

	// Temps are the block-local temporaries declared with | ... |.
	Temps []string

	// Body is the sequence of statements evaluated on invocation.
	Body []ast.Stmt

	// Home is the activation captured at creation: the root of name
	// resolution for free variables and self.
	Home *Activation
}

// NumArgs returns the number of parameters the block expects.
func (b *BlockObject) NumArgs() int {
	return len(b.Params)
}
