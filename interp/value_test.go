package interp

import (
	"math"
	"testing"
)

func TestSmallIntRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 42, -42, MaxSmallInt, MinSmallInt}
	for _, n := range cases {
		v := FromSmallInt(n)
		if !v.IsSmallInt() {
			t.Errorf("FromSmallInt(%d): not recognized as integer", n)
		}
		if v.IsFloat() {
			t.Errorf("FromSmallInt(%d): misrecognized as float", n)
		}
		if v.SmallInt() != n {
			t.Errorf("FromSmallInt(%d): round-tripped to %d", n, v.SmallInt())
		}
	}
}

func TestSmallIntOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range integer")
		}
	}()
	FromSmallInt(MaxSmallInt + 1)
}

func TestFloatRoundTrip(t *testing.T) {
	cases := []float64{0, 1.5, -3.25, math.MaxFloat64, math.SmallestNonzeroFloat64,
		math.Inf(1), math.Inf(-1)}
	for _, f := range cases {
		v := FromFloat64(f)
		if !v.IsFloat() {
			t.Errorf("FromFloat64(%g): not recognized as float", f)
		}
		if v.Float64() != f {
			t.Errorf("FromFloat64(%g): round-tripped to %g", f, v.Float64())
		}
	}
}

func TestRealNaNIsFloat(t *testing.T) {
	v := FromFloat64(math.NaN())
	if !v.IsFloat() {
		t.Error("a genuine NaN must stay a float")
	}
	if v.IsSmallInt() || v.IsSpecial() || v.IsSymbol() {
		t.Error("a genuine NaN must not collide with tagged values")
	}
	if !math.IsNaN(v.Float64()) {
		t.Error("NaN payload lost")
	}
}

func TestSpecialsAreDistinct(t *testing.T) {
	specials := []Value{Nil, True, False, NoValue}
	for a := 0; a < len(specials); a++ {
		for b := a + 1; b < len(specials); b++ {
			if specials[a] == specials[b] {
				t.Errorf("special values %d and %d collide", a, b)
			}
		}
	}
	for _, v := range specials {
		if !v.IsSpecial() {
			t.Errorf("special value not recognized")
		}
		if v.IsFloat() || v.IsSmallInt() {
			t.Errorf("special value misrecognized as number")
		}
	}
}

func TestNoValueDistinctFromNil(t *testing.T) {
	if NoValue == Nil {
		t.Fatal("the no-value sentinel must not equal nil")
	}
	if !NoValue.IsNoValue() || Nil.IsNoValue() {
		t.Error("IsNoValue misclassifies")
	}
}

func TestTruthiness(t *testing.T) {
	if False.IsTruthy() || Nil.IsTruthy() {
		t.Error("false and nil are falsy")
	}
	for _, v := range []Value{True, NoValue, FromSmallInt(0), FromFloat64(0)} {
		if !v.IsTruthy() {
			t.Error("everything but false and nil is truthy")
		}
	}
}

func TestTagDisjointness(t *testing.T) {
	h := NewHeap()
	s := h.NewString("x")
	a := h.NewArray(nil)
	b := h.NewBlock(&BlockObject{})
	sym := FromSymbolID(1)
	n := FromSmallInt(1)

	if !s.IsString() || s.IsArray() || s.IsBlock() || s.IsSymbol() || s.IsSmallInt() || s.IsFloat() {
		t.Error("string tag overlaps another tag")
	}
	if !a.IsArray() || a.IsString() || a.IsBlock() {
		t.Error("array tag overlaps another tag")
	}
	if !b.IsBlock() || b.IsArray() {
		t.Error("block tag overlaps another tag")
	}
	if !sym.IsSymbol() || sym.IsString() {
		t.Error("symbol tag overlaps another tag")
	}
	if !n.IsSmallInt() || n.IsFloat() {
		t.Error("integer misrecognized as float")
	}
}

func TestCellValueRoundTrip(t *testing.T) {
	h := NewHeap()
	c := h.NewCell(FromSmallInt(5))
	v := c.Value()
	if !v.IsCell() {
		t.Fatal("cell value not recognized")
	}
	if h.Cell(v) != c {
		t.Error("cell id did not round-trip through the heap")
	}
	c.Set(FromSmallInt(6))
	if got := h.Cell(v).Get(); !got.IsSmallInt() || got.SmallInt() != 6 {
		t.Error("cell mutation not visible through the heap")
	}
}
