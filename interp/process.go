package interp

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Process: spawned block evaluation
// ---------------------------------------------------------------------------

// ProcessState represents the state of a spawned evaluation.
type ProcessState int32

const (
	ProcessRunning ProcessState = iota
	ProcessTerminated
	ProcessFailed
)

// ProcessObject wraps one spawned evaluation of a block. The goroutine
// runs a completely independent activation stack; the only state shared
// with the spawner is the heap reachable from the block's home chain.
// Per-cell locking keeps reads and writes of shared cells atomic.
type ProcessObject struct {
	ID     uuid.UUID
	state  atomic.Int32 // ProcessState
	done   chan struct{}
	result Value
	err    *EvalError
}

// State returns the current process state.
func (p *ProcessObject) State() ProcessState {
	return ProcessState(p.state.Load())
}

// Processes are encoded using the Symbol tag with a marker bit so they
// stay distinguishable from interned symbols.
const processMarker uint32 = 1 << 24

func processToValue(id uint32) Value {
	return FromSymbolID(id | processMarker)
}

func isProcessValue(v Value) bool {
	if !v.IsSymbol() {
		return false
	}
	return (v.SymbolID() & (0xFF << 24)) == processMarker
}

// process returns the ProcessObject for a process value, or nil.
func (i *Interp) process(v Value) *ProcessObject {
	if !isProcessValue(v) {
		return nil
	}
	i.processMu.Lock()
	defer i.processMu.Unlock()
	return i.processes[v.SymbolID()&^processMarker]
}

// spawnBlock starts a zero-argument block on its own goroutine and
// returns the process value immediately. A non-local return inside the
// spawned evaluation has no live home frame on the new stack, so it fails
// the process with BlockCannotReturn, exactly as a stale block would.
func (i *Interp) spawnBlock(b *BlockObject) Value {
	if b.NumArgs() != 0 {
		signal(ErrWrongArgumentCount, "spawn expects a zero-argument block, got %d",
			b.NumArgs())
	}

	p := &ProcessObject{
		ID:   uuid.New(),
		done: make(chan struct{}),
	}

	i.processMu.Lock()
	i.nextProcess++
	id := i.nextProcess
	i.processes[id] = p
	i.processMu.Unlock()

	log.Debugf("spawning process %s", p.ID)

	go func() {
		defer close(p.done)
		defer func() {
			if r := recover(); r != nil {
				switch sig := r.(type) {
				case SignaledError:
					p.err = sig.Err
				case NonLocalReturn:
					p.err = &EvalError{Kind: ErrBlockCannotReturn,
						Message: "non-local return escaped a spawned evaluation"}
				default:
					panic(r)
				}
				p.result = Nil
				p.state.Store(int32(ProcessFailed))
				log.Debugf("process %s failed: %s", p.ID, p.err.Error())
				return
			}
			p.state.Store(int32(ProcessTerminated))
		}()
		p.result = i.invokeBlock(b, nil, true)
	}()

	return processToValue(id)
}

// sendProcess implements the selectors understood by process values.
func (i *Interp) sendProcess(recv Value, selector string, args []Value) (Value, bool) {
	if !isProcessValue(recv) {
		return Nil, false
	}
	p := i.process(recv)
	if p == nil {
		return Nil, false
	}

	switch selector {
	case "wait":
		// Join the process. A failed process re-signals its error in
		// the waiting evaluation.
		<-p.done
		if p.err != nil {
			panic(SignaledError{Err: p.err})
		}
		return p.result, true

	case "isRunning":
		return FromBool(p.State() == ProcessRunning), true

	case "isTerminated":
		return FromBool(p.State() != ProcessRunning), true

	case "id":
		return i.Heap.NewString(p.ID.String()), true
	}

	return Nil, false
}
