package interp

import "sync"

// ---------------------------------------------------------------------------
// Heap: interpreter-local registries for boxed objects
// ---------------------------------------------------------------------------

// StringObject is a heap-allocated immutable string.
type StringObject struct {
	Content string
}

// ArrayObject is a heap-allocated growable array of values.
type ArrayObject struct {
	Elements []Value
}

// Heap owns every boxed object created by one interpreter. Values carry
// 32-bit ids into these tables; the tables keep the Go objects reachable
// for as long as the interpreter lives. All registries are guarded by one
// mutex so that spawned evaluations can allocate concurrently.
type Heap struct {
	mu sync.Mutex

	strings     map[uint32]*StringObject
	arrays      map[uint32]*ArrayObject
	blocks      map[uint32]*BlockObject
	cells       map[uint32]*Cell
	nextString  uint32
	nextArray   uint32
	nextBlock   uint32
	nextCell    uint32
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	return &Heap{
		strings: make(map[uint32]*StringObject),
		arrays:  make(map[uint32]*ArrayObject),
		blocks:  make(map[uint32]*BlockObject),
		cells:   make(map[uint32]*Cell),
	}
}

// NewString allocates a string object and returns its value.
func (h *Heap) NewString(s string) Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextString++
	id := h.nextString
	h.strings[id] = &StringObject{Content: s}
	return FromStringID(id)
}

// String returns the string object for a string value, or nil.
func (h *Heap) String(v Value) *StringObject {
	if !v.IsString() {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.strings[v.StringID()]
}

// StringContent returns the Go string for a string value, or "".
func (h *Heap) StringContent(v Value) string {
	if s := h.String(v); s != nil {
		return s.Content
	}
	return ""
}

// NewArray allocates an array object holding the given elements.
func (h *Heap) NewArray(elements []Value) Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextArray++
	id := h.nextArray
	h.arrays[id] = &ArrayObject{Elements: elements}
	return FromArrayID(id)
}

// Array returns the array object for an array value, or nil.
func (h *Heap) Array(v Value) *ArrayObject {
	if !v.IsArray() {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.arrays[v.ArrayID()]
}

// NewBlock registers a block closure and returns its value.
func (h *Heap) NewBlock(b *BlockObject) Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextBlock++
	id := h.nextBlock
	h.blocks[id] = b
	return FromBlockID(id)
}

// Block returns the block object for a block value, or nil.
func (h *Heap) Block(v Value) *BlockObject {
	if !v.IsBlock() {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.blocks[v.BlockID()]
}

// NewCell allocates a cell initialized to the given value.
func (h *Heap) NewCell(v Value) *Cell {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextCell++
	id := h.nextCell
	c := &Cell{id: id, value: v}
	h.cells[id] = c
	return c
}

// Cell returns the cell for a cell value, or nil.
func (h *Heap) Cell(v Value) *Cell {
	if !v.IsCell() {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cells[v.CellID()]
}
