package interp

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"

	"github.com/chazu/minitalk/pkg/ast"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("minitalk.interp")

// ---------------------------------------------------------------------------
// Interp: the evaluation engine
// ---------------------------------------------------------------------------

// Interp evaluates parsed programs. One Interp owns one heap, one symbol
// table, and one set of globals; spawned evaluations share all three but
// run on their own activation stacks.
type Interp struct {
	Heap    *Heap
	Symbols *SymbolTable

	globalsMu sync.RWMutex
	globals   map[string]Value

	// Out receives output from the print family of primitives.
	Out io.Writer

	nextActivation atomic.Int32

	processMu   sync.Mutex
	processes   map[uint32]*ProcessObject
	nextProcess uint32
}

// NewInterp creates an interpreter with an empty heap and globals.
func NewInterp() *Interp {
	return &Interp{
		Heap:      NewHeap(),
		Symbols:   NewSymbolTable(),
		globals:   make(map[string]Value),
		Out:       os.Stdout,
		processes: make(map[uint32]*ProcessObject),
	}
}

// Global returns the value of a global binding.
func (i *Interp) Global(name string) (Value, bool) {
	i.globalsMu.RLock()
	defer i.globalsMu.RUnlock()
	v, ok := i.globals[name]
	return v, ok
}

// SetGlobal creates or updates a global binding.
func (i *Interp) SetGlobal(name string, v Value) {
	i.globalsMu.Lock()
	defer i.globalsMu.Unlock()
	i.globals[name] = v
}

// GlobalNames returns the names of all global bindings.
func (i *Interp) GlobalNames() []string {
	i.globalsMu.RLock()
	defer i.globalsMu.RUnlock()
	names := make([]string, 0, len(i.globals))
	for name := range i.globals {
		names = append(names, name)
	}
	return names
}

// newActivation allocates an activation record. bindReceiver marks the
// activation as a method-like frame: it answers Self queries and is a
// valid target for non-local returns.
func (i *Interp) newActivation(parent *Activation, receiver Value, bindReceiver bool) *Activation {
	return &Activation{
		ID:          i.nextActivation.Add(1),
		Parent:      parent,
		Receiver:    receiver,
		hasReceiver: bindReceiver,
		cells:       make(map[string]*Cell),
	}
}

// ---------------------------------------------------------------------------
// Evaluation entry point
// ---------------------------------------------------------------------------

// Evaluate runs a parsed program in a fresh top-level activation with the
// given receiver bound to self. It returns the value of the last statement,
// or the error that aborted the evaluation. The returned activation stays
// valid afterwards: blocks created during the run keep it, and its cells,
// alive and mutable.
func (i *Interp) Evaluate(prog *ast.Program, receiver Value) (Value, *Activation, error) {
	top := i.newActivation(nil, receiver, true)
	top.declare(i.Heap, Nil, prog.Temps...)
	v, err := i.evalTopLevel(prog.Stmts, top)
	return v, top, err
}

// EvaluateIn runs a statement sequence in an existing top-level
// activation. The REPL uses this to keep one session-wide activation
// across inputs; freshly declared temps are added to it.
func (i *Interp) EvaluateIn(prog *ast.Program, top *Activation) (Value, error) {
	top.declare(i.Heap, Nil, prog.Temps...)
	return i.evalTopLevel(prog.Stmts, top)
}

// evalTopLevel evaluates statements in a method-like frame, converting
// signals back into Go errors for the driver.
func (i *Interp) evalTopLevel(stmts []ast.Stmt, top *Activation) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch p := r.(type) {
			case SignaledError:
				log.Debugf("evaluation aborted: %s", p.Err.Error())
				result = Nil
				err = p.Err
			case NonLocalReturn:
				if p.HomeID == top.ID {
					result = p.Value
					return
				}
				// The home activation already returned; there is no
				// frame left to unwind to.
				result = Nil
				err = &EvalError{Kind: ErrBlockCannotReturn,
					Message: "home context has already returned"}
			default:
				panic(r)
			}
		}
	}()

	result = i.evalStmts(stmts, top)
	return result, nil
}

// ---------------------------------------------------------------------------
// Statement and expression evaluation
// ---------------------------------------------------------------------------

// evalStmts evaluates a statement sequence and returns the value of the
// last statement, or nil for an empty sequence.
func (i *Interp) evalStmts(stmts []ast.Stmt, act *Activation) Value {
	result := Nil
	for _, s := range stmts {
		result = i.evalStmt(s, act)
	}
	return result
}

func (i *Interp) evalStmt(s ast.Stmt, act *Activation) Value {
	switch stmt := s.(type) {
	case *ast.Assign:
		v := i.evalExpr(stmt.Value, act)
		i.assign(stmt.Name, v, act)
		return v

	case *ast.Return:
		v := i.evalExpr(stmt.Value, act)
		panic(NonLocalReturn{Value: v, HomeID: act.homeID()})

	case *ast.ExprStmt:
		return i.evalExpr(stmt.Expr, act)

	default:
		signal(ErrInvalidArgument, "unknown statement node %T", s)
		return Nil
	}
}

// assign resolves name at assignment time: the lexical chain first, then
// an existing global. Assigning to an unbound name is an error.
func (i *Interp) assign(name string, v Value, act *Activation) {
	if cell := act.Lookup(name); cell != nil {
		cell.Set(v)
		return
	}
	i.globalsMu.Lock()
	if _, ok := i.globals[name]; ok {
		i.globals[name] = v
		i.globalsMu.Unlock()
		return
	}
	i.globalsMu.Unlock()
	signal(ErrUnresolvedName, "cannot assign to undeclared variable '%s'", name)
}

func (i *Interp) evalExpr(e ast.Expr, act *Activation) Value {
	switch expr := e.(type) {
	case *ast.IntLit:
		return FromSmallInt(expr.Value)

	case *ast.FloatLit:
		return FromFloat64(expr.Value)

	case *ast.StringLit:
		return i.Heap.NewString(expr.Value)

	case *ast.SymbolLit:
		return FromSymbolID(i.Symbols.Intern(expr.Name))

	case *ast.ArrayLit:
		elements := make([]Value, len(expr.Elements))
		for j, el := range expr.Elements {
			elements[j] = i.evalExpr(el, act)
		}
		return i.Heap.NewArray(elements)

	case *ast.NilLit:
		return Nil

	case *ast.BoolLit:
		return FromBool(expr.Value)

	case *ast.SelfExpr:
		return act.Self()

	case *ast.Ident:
		// Resolution happens at every access: the name yields the same
		// cell for the closure's whole life, but the value read is the
		// cell's current value, never a snapshot.
		if cell := act.Lookup(expr.Name); cell != nil {
			return cell.Get()
		}
		if v, ok := i.Global(expr.Name); ok {
			return v
		}
		signal(ErrUnresolvedName, "'%s' is not declared in any enclosing context", expr.Name)
		return Nil

	case *ast.BlockLit:
		// A new closure per evaluation of the literal, capturing
		// whatever activation is executing right now as its home.
		return i.Heap.NewBlock(&BlockObject{
			Params: expr.Params,
			Temps:  expr.Temps,
			Body:   expr.Body,
			Home:   act,
		})

	case *ast.Send:
		recv := i.evalExpr(expr.Receiver, act)
		args := make([]Value, len(expr.Args))
		for j, a := range expr.Args {
			args[j] = i.evalExpr(a, act)
		}
		return i.send(recv, expr.Selector, args)

	default:
		signal(ErrInvalidArgument, "unknown expression node %T", e)
		return Nil
	}
}

// ---------------------------------------------------------------------------
// Block invocation
// ---------------------------------------------------------------------------

// invokeBlock runs a block. strictArity selects between the value-family
// contract (argument count must match exactly) and the cull:-family one
// (extra arguments are ignored, missing parameters bind to noValue).
//
// Each invocation builds a fresh activation chained to the block's home,
// with a fresh cell per parameter and per block-local temp. Names in the
// body resolve through this activation and then up the captured home
// chain; the caller's activation is never consulted.
func (i *Interp) invokeBlock(b *BlockObject, args []Value, strictArity bool) Value {
	if strictArity && len(args) != b.NumArgs() {
		signal(ErrWrongArgumentCount, "block expects %d arguments, got %d",
			b.NumArgs(), len(args))
	}

	act := i.newActivation(b.Home, Nil, false)
	for j, param := range b.Params {
		if j < len(args) {
			act.bind(i.Heap, param, args[j])
		} else {
			act.bind(i.Heap, param, NoValue)
		}
	}
	act.declare(i.Heap, NoValue, b.Temps...)

	return i.evalStmts(b.Body, act)
}
