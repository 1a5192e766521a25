package interp

// ---------------------------------------------------------------------------
// Activation: one execution of a callable body
// ---------------------------------------------------------------------------

// Activation is the runtime record of one invocation of a callable body
// (the top-level program, or one call of a block). It is heap-allocated:
// a block that captures it keeps it, and every cell it owns, reachable
// after the call that created it has returned.
//
// The set of declared names is fixed at creation; only cell values change
// afterwards.
type Activation struct {
	// ID identifies this activation for non-local return targeting.
	ID int32

	// Parent is the lexically enclosing activation: the home activation
	// for block calls, nil for the top-level activation.
	Parent *Activation

	// Receiver is the value bound to self, captured at creation. Block
	// activations leave it unbound and inherit self through the chain.
	Receiver    Value
	hasReceiver bool

	cells map[string]*Cell
}

// declare binds a fresh cell for each name, initialized to init. Called
// only while the activation is being constructed; redeclaring a name
// replaces its cell.
func (a *Activation) declare(h *Heap, init Value, names ...string) {
	for _, name := range names {
		a.cells[name] = h.NewCell(init)
	}
}

// bind binds name to a fresh cell holding v.
func (a *Activation) bind(h *Heap, name string, v Value) {
	a.cells[name] = h.NewCell(v)
}

// Cell returns the cell for a name declared directly in this activation.
func (a *Activation) Cell(name string) (*Cell, bool) {
	c, ok := a.cells[name]
	return c, ok
}

// Lookup resolves a name to its cell by walking the lexical chain,
// starting at this activation. The activation that invoked a block is
// never consulted; only the captured home chain is. Returns nil if the
// name is not bound anywhere in the chain.
func (a *Activation) Lookup(name string) *Cell {
	for act := a; act != nil; act = act.Parent {
		if c, ok := act.cells[name]; ok {
			return c
		}
	}
	return nil
}

// Self resolves the implicit receiver by walking the chain to the nearest
// activation with a bound receiver. Block activations never bind one, so
// self inside a block is always the home activation's receiver, never the
// caller's.
func (a *Activation) Self() Value {
	for act := a; act != nil; act = act.Parent {
		if act.hasReceiver {
			return act.Receiver
		}
	}
	return Nil
}

// homeID returns the id of the nearest enclosing activation that binds a
// receiver: the target frame for a non-local return initiated here.
func (a *Activation) homeID() int32 {
	for act := a; act != nil; act = act.Parent {
		if act.hasReceiver {
			return act.ID
		}
	}
	return a.ID
}
