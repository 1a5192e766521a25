package interp

import (
	"testing"

	"github.com/chazu/minitalk/pkg/parser"
)

func TestSpawnAndWait(t *testing.T) {
	v, _ := evalSrc(t, "| p | p := [21 * 2] spawn. p wait")
	wantInt(t, v, 42)
}

func TestSpawnedEvaluationSharesCells(t *testing.T) {
	// The spawned block captures n through its home chain; its mutation
	// is visible to the spawner after the join.
	v, _ := evalSrc(t, `
		| n p |
		n := 1.
		p := [n := n + 41] spawn.
		p wait.
		n
	`)
	wantInt(t, v, 42)
}

func TestSpawnRequiresZeroArgBlock(t *testing.T) {
	e := evalErr(t, "[:x | x] spawn")
	if e.Kind != ErrWrongArgumentCount {
		t.Errorf("expected WrongArgumentCountError, got %s", e.Kind)
	}
}

func TestSpawnedFailureResignalsOnWait(t *testing.T) {
	e := evalErr(t, "| p | p := [1 / 0] spawn. p wait")
	if e.Kind != ErrZeroDivide {
		t.Errorf("expected ZeroDivide resignaled at wait, got %s", e.Kind)
	}
}

func TestNonLocalReturnFailsSpawnedProcess(t *testing.T) {
	// The ^ targets the spawner's top activation, which does not exist on
	// the spawned stack.
	e := evalErr(t, "| p | p := [^ 1] spawn. p wait")
	if e.Kind != ErrBlockCannotReturn {
		t.Errorf("expected BlockCannotReturn, got %s", e.Kind)
	}
}

func TestProcessStateSelectors(t *testing.T) {
	v, _ := evalSrc(t, "| p | p := [1] spawn. p wait. p isTerminated")
	if v != True {
		t.Errorf("expected isTerminated after wait")
	}
	v, _ = evalSrc(t, "| p | p := [1] spawn. p wait. p isRunning")
	if v != False {
		t.Errorf("expected isRunning false after wait")
	}
}

func TestProcessWaitIsIdempotent(t *testing.T) {
	v, _ := evalSrc(t, "| p | p := [7] spawn. p wait. p wait")
	wantInt(t, v, 7)
}

func TestProcessIdAndPrinting(t *testing.T) {
	v, i := evalSrc(t, "| p | p := [1] spawn. p wait. p id")
	if !v.IsString() || len(i.Heap.StringContent(v)) != 36 {
		t.Errorf("expected a UUID string id")
	}

	pv, i2 := evalSrc(t, "| p | p := [1] spawn. p wait. p")
	s := i2.PrintString(pv)
	if len(s) < len("a Process(") {
		t.Errorf("unexpected process printString %q", s)
	}
}

func TestProcessValueNotASymbol(t *testing.T) {
	// Process values live in the symbol tag space but must not answer
	// symbol selectors or print as symbols.
	v, _ := evalSrc(t, "| p | p := [1] spawn. p wait. p = #p")
	if v != False {
		t.Errorf("process must not equal a symbol")
	}
}

func TestManySpawnsShareOneCounter(t *testing.T) {
	// Per-cell locking keeps concurrent increments from tearing, though
	// the final count can be anything up to the spawn count because the
	// read-modify-write is not atomic as a whole.
	v, _ := evalSrc(t, `
		| n ps |
		n := 0.
		ps := {}.
		1 to: 8 do: [:k | ps add: [n := n + 1] spawn].
		ps do: [:p | p wait].
		n > 0
	`)
	if v != True {
		t.Errorf("expected at least one increment to land")
	}
}

func TestSpawnedProcessCanSpawn(t *testing.T) {
	v, _ := evalSrc(t, "| p | p := [[3 * 4] spawn wait] spawn. p wait")
	wantInt(t, v, 12)
}

func TestSpawnedBlockSeesGlobals(t *testing.T) {
	i := NewInterp()
	i.SetGlobal("base", FromSmallInt(40))
	prog, err := parser.Parse("| p | p := [base + 2] spawn. p wait")
	if err != nil {
		t.Fatal(err)
	}
	v, _, err := i.Evaluate(prog, Nil)
	if err != nil {
		t.Fatal(err)
	}
	wantInt(t, v, 42)
}
