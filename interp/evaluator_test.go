package interp

import (
	"testing"

	"github.com/chazu/minitalk/pkg/ast"
	"github.com/chazu/minitalk/pkg/parser"
)

// evalSrc parses and evaluates src in a fresh interpreter with nil as self.
func evalSrc(t *testing.T, src string) (Value, *Interp) {
	t.Helper()
	i := NewInterp()
	v := evalIn(t, i, src, Nil)
	return v, i
}

// evalIn parses and evaluates src in an existing interpreter.
func evalIn(t *testing.T, i *Interp, src string, receiver Value) Value {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	v, _, err := i.Evaluate(prog, receiver)
	if err != nil {
		t.Fatalf("evaluate %q: %v", src, err)
	}
	return v
}

// evalErr evaluates src expecting it to abort, and returns the error.
func evalErr(t *testing.T, src string) *EvalError {
	t.Helper()
	i := NewInterp()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	_, _, err = i.Evaluate(prog, Nil)
	if err == nil {
		t.Fatalf("evaluate %q: expected error, got none", src)
	}
	ee, ok := err.(*EvalError)
	if !ok {
		t.Fatalf("evaluate %q: expected *EvalError, got %T", src, err)
	}
	return ee
}

func wantInt(t *testing.T, v Value, n int64) {
	t.Helper()
	if !v.IsSmallInt() {
		t.Fatalf("expected integer %d, got non-integer value", n)
	}
	if v.SmallInt() != n {
		t.Errorf("expected %d, got %d", n, v.SmallInt())
	}
}

func wantInts(t *testing.T, i *Interp, v Value, ns ...int64) {
	t.Helper()
	arr := i.Heap.Array(v)
	if arr == nil {
		t.Fatalf("expected an array value")
	}
	if len(arr.Elements) != len(ns) {
		t.Fatalf("expected %d elements, got %d", len(ns), len(arr.Elements))
	}
	for j, n := range ns {
		if !arr.Elements[j].IsSmallInt() || arr.Elements[j].SmallInt() != n {
			t.Errorf("element %d: expected %d, got %s", j+1, n, i.PrintString(arr.Elements[j]))
		}
	}
}

// ---------------------------------------------------------------------------
// Capture and resolution
// ---------------------------------------------------------------------------

func TestBlockCapturesEnclosingVariable(t *testing.T) {
	v, _ := evalSrc(t, "| t b | t := 42. b := [t]. b value")
	wantInt(t, v, 42)
}

func TestCaptureResolvesThroughHomeNotCaller(t *testing.T) {
	// The block capturing t is invoked from inside another block that
	// declares its own t; the captured cell must win.
	v, _ := evalSrc(t, `
		| t b |
		t := 42.
		b := [t].
		[:blk | | t | t := 7. blk value] value: b
	`)
	wantInt(t, v, 42)
}

func TestAccessReadsCurrentCellValue(t *testing.T) {
	// Capture is by cell, not by value: a later assignment in the
	// enclosing scope is visible at invocation time.
	v, _ := evalSrc(t, "| t b | t := 42. b := [t]. t := 69. b value")
	wantInt(t, v, 69)
}

func TestBlockMutationVisibleOutside(t *testing.T) {
	v, _ := evalSrc(t, "| t b | t := 1. b := [t := 33]. b value. t")
	wantInt(t, v, 33)
}

func TestSharedCounterCell(t *testing.T) {
	v, _ := evalSrc(t, `
		| n inc |
		n := 0.
		inc := [n := n + 1. n].
		inc value. inc value. inc value
	`)
	wantInt(t, v, 3)
}

func TestTwoBlocksShareOneCell(t *testing.T) {
	v, _ := evalSrc(t, `
		| n up show |
		n := 10.
		up := [n := n + 5].
		show := [n].
		up value.
		show value
	`)
	wantInt(t, v, 15)
}

func TestPerIterationCellsAreDistinct(t *testing.T) {
	// x is declared inside the iteration body, so every iteration gets a
	// fresh cell and each saved block remembers its own.
	v, i := evalSrc(t, `
		| blocks |
		blocks := {}.
		1 to: 3 do: [:n | | x | x := n. blocks add: [x]].
		{(blocks at: 1) value. (blocks at: 2) value. (blocks at: 3) value}
	`)
	wantInts(t, i, v, 1, 2, 3)
}

func TestSharedOuterCellAcrossIterations(t *testing.T) {
	// x is declared outside the loop: one cell, shared by every block.
	v, i := evalSrc(t, `
		| x blocks |
		blocks := {}.
		1 to: 3 do: [:n | x := n. blocks add: [x]].
		{(blocks at: 1) value. (blocks at: 2) value. (blocks at: 3) value}
	`)
	wantInts(t, i, v, 3, 3, 3)
}

func TestCellsOutliveTheirActivation(t *testing.T) {
	// The maker block's activation has returned, yet the closure it made
	// still reads and writes the activation's cell.
	v, i := evalSrc(t, `
		| mk c |
		mk := [:start | | n | n := start. [n := n + 1. n]].
		c := mk value: 10.
		{c value. c value}
	`)
	wantInts(t, i, v, 11, 12)
}

func TestIndependentClosuresFromSameMaker(t *testing.T) {
	v, i := evalSrc(t, `
		| mk a b |
		mk := [:start | | n | n := start. [n := n + 1. n]].
		a := mk value: 0.
		b := mk value: 100.
		a value. a value.
		{a value. b value}
	`)
	wantInts(t, i, v, 3, 101)
}

func TestUnresolvedName(t *testing.T) {
	e := evalErr(t, "zork")
	if e.Kind != ErrUnresolvedName {
		t.Errorf("expected UnresolvedNameError, got %s", e.Kind)
	}
}

func TestAssignToUndeclaredName(t *testing.T) {
	e := evalErr(t, "zork := 3")
	if e.Kind != ErrUnresolvedName {
		t.Errorf("expected UnresolvedNameError, got %s", e.Kind)
	}
}

func TestGlobalsResolveAfterChain(t *testing.T) {
	i := NewInterp()
	i.SetGlobal("answer", FromSmallInt(42))
	v := evalIn(t, i, "[answer] value", Nil)
	wantInt(t, v, 42)

	// A temp with the same name shadows the global.
	v = evalIn(t, i, "| answer | answer := 1. [answer] value", Nil)
	wantInt(t, v, 1)
}

// ---------------------------------------------------------------------------
// Strict and lenient invocation
// ---------------------------------------------------------------------------

func TestStrictArityTooManyArguments(t *testing.T) {
	e := evalErr(t, "[:x | x] value: 1 value: 2")
	if e.Kind != ErrWrongArgumentCount {
		t.Errorf("expected WrongArgumentCountError, got %s", e.Kind)
	}
}

func TestStrictArityTooFewArguments(t *testing.T) {
	e := evalErr(t, "[:x :y | x] value: 1")
	if e.Kind != ErrWrongArgumentCount {
		t.Errorf("expected WrongArgumentCountError, got %s", e.Kind)
	}
}

func TestStrictZeroArgMismatch(t *testing.T) {
	e := evalErr(t, "[42] value: 1")
	if e.Kind != ErrWrongArgumentCount {
		t.Errorf("expected WrongArgumentCountError, got %s", e.Kind)
	}
}

func TestLenientExtrasIgnored(t *testing.T) {
	v, _ := evalSrc(t, "[:x | x] cull: 1 cull: 2")
	wantInt(t, v, 1)
}

func TestLenientMissingBindsNoValue(t *testing.T) {
	v, _ := evalSrc(t, "[:x :y | y isNoValue] cull: 1")
	if v != True {
		t.Errorf("expected missing parameter to bind the no-value sentinel")
	}
}

func TestLenientSentinelDistinctFromNil(t *testing.T) {
	v, i := evalSrc(t, "[:x :y | {x isNoValue. x isNil. y isNoValue}] cull: nil")
	arr := i.Heap.Array(v)
	if arr == nil || len(arr.Elements) != 3 {
		t.Fatalf("expected a 3-element array result")
	}
	// The supplied nil stays nil; only the missing parameter is noValue.
	if arr.Elements[0] != False || arr.Elements[1] != True || arr.Elements[2] != True {
		t.Errorf("got %s %s %s", i.PrintString(arr.Elements[0]),
			i.PrintString(arr.Elements[1]), i.PrintString(arr.Elements[2]))
	}
}

func TestArithmeticOnSentinelSignals(t *testing.T) {
	e := evalErr(t, "[:x :y | x + y] cull: 1")
	if e.Kind != ErrNoValue {
		t.Errorf("expected NoValueError, got %s", e.Kind)
	}
}

func TestValueWithArguments(t *testing.T) {
	v, _ := evalSrc(t, "[:x :y | x - y] valueWithArguments: {10. 3}")
	wantInt(t, v, 7)
}

func TestValueWithArgumentsArityMismatch(t *testing.T) {
	e := evalErr(t, "[:x :y | x] valueWithArguments: {1}")
	if e.Kind != ErrWrongArgumentCount {
		t.Errorf("expected WrongArgumentCountError, got %s", e.Kind)
	}
}

func TestCullWithArguments(t *testing.T) {
	v, _ := evalSrc(t, "[:x :y :z | x] cullWithArguments: {5}")
	wantInt(t, v, 5)
}

func TestNumArgs(t *testing.T) {
	v, _ := evalSrc(t, "[:a :b :c | a] numArgs")
	wantInt(t, v, 3)
}

// ---------------------------------------------------------------------------
// Self
// ---------------------------------------------------------------------------

func TestSelfResolvesThroughHomeChain(t *testing.T) {
	i := NewInterp()
	v := evalIn(t, i, "[self] value", FromSmallInt(7))
	wantInt(t, v, 7)
}

func TestSelfInNestedBlocks(t *testing.T) {
	i := NewInterp()
	v := evalIn(t, i, "[[[self] value] value] value", FromSmallInt(9))
	wantInt(t, v, 9)
}

func TestSelfSurvivesEscapedBlock(t *testing.T) {
	// The block referring to self escapes its maker; self still resolves
	// through the captured home chain.
	i := NewInterp()
	v := evalIn(t, i, "| b | b := [:ignored | [self]] value: 0. b value", FromSmallInt(3))
	wantInt(t, v, 3)
}

// ---------------------------------------------------------------------------
// Non-local return
// ---------------------------------------------------------------------------

func TestNonLocalReturnExitsProgram(t *testing.T) {
	v, _ := evalSrc(t, "| r | r := [:x | ^ x] value: 5. r := 99. r")
	wantInt(t, v, 5)
}

func TestNonLocalReturnUnwindsIntermediateBlocks(t *testing.T) {
	v, _ := evalSrc(t, "[[:x | ^ x] value: 7. 99] value")
	wantInt(t, v, 7)
}

func TestNonLocalReturnSkipsFollowingStatements(t *testing.T) {
	// ^42 exits the whole program: the result is 42 and the statements
	// after it never run.
	v, _ := evalSrc(t, `
		| hits b |
		hits := {}.
		b := [hits add: 1. ^ 42. hits add: 2].
		b value.
		hits
	`)
	wantInt(t, v, 42)
}

func TestNonLocalReturnDeadHome(t *testing.T) {
	i := NewInterp()
	bv := evalIn(t, i, "[^ 42]", Nil)
	if !bv.IsBlock() {
		t.Fatalf("expected a block value")
	}
	i.SetGlobal("b", bv)

	prog, err := parser.Parse("b value")
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = i.Evaluate(prog, Nil)
	if err == nil {
		t.Fatal("expected error invoking a block whose home has returned")
	}
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != ErrBlockCannotReturn {
		t.Errorf("expected BlockCannotReturn, got %v", err)
	}
}

func TestEscapedBlockCellsStillMutableAfterDeadHomeCheck(t *testing.T) {
	// A block with no ^ survives its program and keeps its cells alive.
	i := NewInterp()
	bv := evalIn(t, i, "| n | n := 0. [n := n + 1. n]", Nil)
	i.SetGlobal("c", bv)
	v := evalIn(t, i, "c value. c value", Nil)
	wantInt(t, v, 2)
}

// ---------------------------------------------------------------------------
// REPL-style shared activation
// ---------------------------------------------------------------------------

func TestEvaluateInKeepsSessionState(t *testing.T) {
	i := NewInterp()
	_, top, err := i.Evaluate(mustParse(t, "| n | n := 1"), Nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := i.EvaluateIn(mustParse(t, "n := n + 41"), top); err != nil {
		t.Fatal(err)
	}
	v, err := i.EvaluateIn(mustParse(t, "n"), top)
	if err != nil {
		t.Fatal(err)
	}
	wantInt(t, v, 42)
}

func TestTopLevelTempsInitializeToNil(t *testing.T) {
	v, _ := evalSrc(t, "| fresh | fresh isNil")
	if v != True {
		t.Errorf("expected undeclared-but-declared temp to start as nil")
	}
}

func TestBlockTempsInitializeToNoValue(t *testing.T) {
	v, _ := evalSrc(t, "[| fresh | fresh isNoValue] value")
	if v != True {
		t.Errorf("expected block temp to start as the no-value sentinel")
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return prog
}
