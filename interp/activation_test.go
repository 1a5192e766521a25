package interp

import "testing"

func TestLookupWalksTheChain(t *testing.T) {
	i := NewInterp()
	outer := i.newActivation(nil, Nil, true)
	outer.declare(i.Heap, Nil, "a")
	inner := i.newActivation(outer, Nil, false)
	inner.declare(i.Heap, Nil, "b")

	if inner.Lookup("b") == nil {
		t.Error("own declaration not found")
	}
	if inner.Lookup("a") == nil {
		t.Error("enclosing declaration not found through the chain")
	}
	if outer.Lookup("b") != nil {
		t.Error("inner declaration must not leak outward")
	}
	if inner.Lookup("zork") != nil {
		t.Error("unbound name resolved")
	}
}

func TestShadowingResolvesToNearestCell(t *testing.T) {
	i := NewInterp()
	outer := i.newActivation(nil, Nil, true)
	outer.declare(i.Heap, FromSmallInt(1), "x")
	inner := i.newActivation(outer, Nil, false)
	inner.declare(i.Heap, FromSmallInt(2), "x")

	if got := inner.Lookup("x").Get(); got.SmallInt() != 2 {
		t.Errorf("expected the inner cell, got %d", got.SmallInt())
	}
	if got := outer.Lookup("x").Get(); got.SmallInt() != 1 {
		t.Errorf("outer cell clobbered, got %d", got.SmallInt())
	}
}

func TestSharedCellAcrossActivations(t *testing.T) {
	i := NewInterp()
	outer := i.newActivation(nil, Nil, true)
	outer.declare(i.Heap, FromSmallInt(0), "n")
	inner := i.newActivation(outer, Nil, false)

	inner.Lookup("n").Set(FromSmallInt(9))
	if got := outer.Lookup("n").Get(); got.SmallInt() != 9 {
		t.Error("mutation through the chain not visible at the declaration site")
	}
	outerCell, _ := outer.Cell("n")
	if inner.Lookup("n") != outerCell {
		t.Error("chain lookup must yield the declaring activation's cell")
	}
}

func TestSelfWalksToReceiverBoundFrame(t *testing.T) {
	i := NewInterp()
	top := i.newActivation(nil, FromSmallInt(7), true)
	blockAct := i.newActivation(top, FromSmallInt(99), false)
	nested := i.newActivation(blockAct, Nil, false)

	if got := nested.Self(); got.SmallInt() != 7 {
		t.Errorf("self must skip receiver-less frames, got %s", i.PrintString(got))
	}
	if top.homeID() != top.ID {
		t.Error("a receiver-bound frame is its own home")
	}
	if nested.homeID() != top.ID {
		t.Error("a block frame's home is the nearest receiver-bound frame")
	}
}

func TestActivationIDsAreUnique(t *testing.T) {
	i := NewInterp()
	seen := make(map[int32]bool)
	for k := 0; k < 100; k++ {
		a := i.newActivation(nil, Nil, false)
		if seen[a.ID] {
			t.Fatalf("duplicate activation id %d", a.ID)
		}
		seen[a.ID] = true
	}
}
