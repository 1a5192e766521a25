package interp

import "math"

// ---------------------------------------------------------------------------
// Number Primitives
// ---------------------------------------------------------------------------

// sendNumber implements arithmetic, comparison, and counted iteration on
// small integers and floats. Mixed int/float operands promote to float.
func (i *Interp) sendNumber(recv Value, selector string, args []Value) (Value, bool) {
	if !recv.IsNumber() {
		return Nil, false
	}

	switch selector {
	case "+", "-", "*", "/", "//", "\\\\":
		i.checkNoValue(selector, args[0])
		if !args[0].IsNumber() {
			signal(ErrInvalidArgument, "#%s expects a number, got %s",
				selector, i.PrintString(args[0]))
		}
		return i.arith(selector, recv, args[0]), true

	case "<", ">", "<=", ">=":
		i.checkNoValue(selector, args[0])
		if !args[0].IsNumber() {
			signal(ErrInvalidArgument, "#%s expects a number, got %s",
				selector, i.PrintString(args[0]))
		}
		return i.compare(selector, recv, args[0]), true

	case "=":
		if !args[0].IsNumber() {
			return False, true
		}
		return FromBool(numEqual(recv, args[0])), true

	case "~=":
		if !args[0].IsNumber() {
			return True, true
		}
		return FromBool(!numEqual(recv, args[0])), true

	case "negated":
		if recv.IsSmallInt() {
			return FromSmallInt(-recv.SmallInt()), true
		}
		return FromFloat64(-recv.Float64()), true

	case "abs":
		if recv.IsSmallInt() {
			n := recv.SmallInt()
			if n < 0 {
				n = -n
			}
			return FromSmallInt(n), true
		}
		return FromFloat64(math.Abs(recv.Float64())), true

	case "min:":
		i.checkNoValue(selector, args[0])
		if i.compare("<", recv, args[0]) == True {
			return recv, true
		}
		return args[0], true

	case "max:":
		i.checkNoValue(selector, args[0])
		if i.compare(">", recv, args[0]) == True {
			return recv, true
		}
		return args[0], true

	case "asFloat":
		if recv.IsSmallInt() {
			return FromFloat64(float64(recv.SmallInt())), true
		}
		return recv, true

	case "asInteger":
		if recv.IsFloat() {
			return FromSmallInt(int64(recv.Float64())), true
		}
		return recv, true

	case "to:do:":
		if !recv.IsSmallInt() || !args[0].IsSmallInt() {
			signal(ErrInvalidArgument, "to:do: expects integer bounds")
		}
		body := i.Heap.Block(args[1])
		if body == nil {
			signal(ErrInvalidArgument, "to:do: expects a block argument")
		}
		// One strict invocation per index: each iteration runs in a
		// fresh activation, so block-local declarations in the body get
		// a fresh cell every time around.
		limit := args[0].SmallInt()
		for k := recv.SmallInt(); k <= limit; k++ {
			i.invokeBlock(body, []Value{FromSmallInt(k)}, true)
		}
		return recv, true

	case "timesRepeat:":
		if !recv.IsSmallInt() {
			signal(ErrInvalidArgument, "timesRepeat: expects an integer receiver")
		}
		body := i.Heap.Block(args[0])
		if body == nil {
			signal(ErrInvalidArgument, "timesRepeat: expects a block argument")
		}
		for k := int64(0); k < recv.SmallInt(); k++ {
			i.invokeBlock(body, nil, true)
		}
		return recv, true
	}

	return Nil, false
}

func numEqual(a, b Value) bool {
	if a.IsSmallInt() && b.IsSmallInt() {
		return a.SmallInt() == b.SmallInt()
	}
	return toFloat(a) == toFloat(b)
}

func toFloat(v Value) float64 {
	if v.IsSmallInt() {
		return float64(v.SmallInt())
	}
	return v.Float64()
}

// arith evaluates a binary arithmetic selector. Integer / is truncating
// division; // floors toward negative infinity; \\ is the matching modulo.
func (i *Interp) arith(selector string, a, b Value) Value {
	if a.IsSmallInt() && b.IsSmallInt() {
		x, y := a.SmallInt(), b.SmallInt()
		switch selector {
		case "+":
			return FromSmallInt(x + y)
		case "-":
			return FromSmallInt(x - y)
		case "*":
			return FromSmallInt(x * y)
		case "/":
			if y == 0 {
				signal(ErrZeroDivide, "%d / 0", x)
			}
			return FromSmallInt(x / y)
		case "//":
			if y == 0 {
				signal(ErrZeroDivide, "%d // 0", x)
			}
			return FromSmallInt(floorDiv(x, y))
		case "\\\\":
			if y == 0 {
				signal(ErrZeroDivide, "%d \\\\ 0", x)
			}
			return FromSmallInt(x - floorDiv(x, y)*y)
		}
	}

	x, y := toFloat(a), toFloat(b)
	switch selector {
	case "+":
		return FromFloat64(x + y)
	case "-":
		return FromFloat64(x - y)
	case "*":
		return FromFloat64(x * y)
	case "/":
		return FromFloat64(x / y)
	case "//":
		return FromFloat64(math.Floor(x / y))
	case "\\\\":
		return FromFloat64(x - math.Floor(x/y)*y)
	}
	return Nil
}

func floorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

func (i *Interp) compare(selector string, a, b Value) Value {
	if a.IsSmallInt() && b.IsSmallInt() {
		x, y := a.SmallInt(), b.SmallInt()
		switch selector {
		case "<":
			return FromBool(x < y)
		case ">":
			return FromBool(x > y)
		case "<=":
			return FromBool(x <= y)
		case ">=":
			return FromBool(x >= y)
		}
	}

	x, y := toFloat(a), toFloat(b)
	switch selector {
	case "<":
		return FromBool(x < y)
	case ">":
		return FromBool(x > y)
	case "<=":
		return FromBool(x <= y)
	case ">=":
		return FromBool(x >= y)
	}
	return Nil
}
