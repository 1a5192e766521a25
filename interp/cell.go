package interp

import "sync"

// ---------------------------------------------------------------------------
// Cell: mutable box for one variable
// ---------------------------------------------------------------------------

// Cell is a heap-allocated mutable container for a single variable.
// Identity matters: every activation and block that captures a variable
// holds the same cell, so a mutation through any holder is visible to all
// of them. A fresh cell is allocated once per runtime occurrence of a
// declaration, never once per variable name.
//
// Reads and writes are serialized by a per-cell mutex so that spawned
// evaluations sharing a cell keep the single-threaded ordering guarantees.
type Cell struct {
	id    uint32
	mu    sync.Mutex
	value Value
}

// ID returns the heap id of the cell.
func (c *Cell) ID() uint32 {
	return c.id
}

// Get returns the current value of the cell.
func (c *Cell) Get() Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set stores a value in the cell.
func (c *Cell) Set(v Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
}

// Value returns the cell as a tagged Value.
func (c *Cell) Value() Value {
	return FromCellID(c.id)
}
