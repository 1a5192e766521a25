package interp

// ---------------------------------------------------------------------------
// Array Primitives
// ---------------------------------------------------------------------------

// sendArray implements indexing, growth, and iteration. Indexing is
// 1-based. The iteration selectors invoke their block strictly, once per
// element, so a per-iteration declaration inside the block gets a fresh
// cell on every element.
func (i *Interp) sendArray(recv Value, selector string, args []Value) (Value, bool) {
	if !recv.IsArray() {
		return Nil, false
	}
	arr := i.Heap.Array(recv)
	if arr == nil {
		return Nil, false
	}

	switch selector {
	case "size":
		return FromSmallInt(int64(len(arr.Elements))), true

	case "isEmpty":
		return FromBool(len(arr.Elements) == 0), true

	case "notEmpty":
		return FromBool(len(arr.Elements) != 0), true

	case "at:":
		idx := i.arrayIndex(arr, args[0])
		return arr.Elements[idx-1], true

	case "at:put:":
		idx := i.arrayIndex(arr, args[0])
		arr.Elements[idx-1] = args[1]
		return args[1], true

	case "add:":
		arr.Elements = append(arr.Elements, args[0])
		return args[0], true

	case "first":
		if len(arr.Elements) == 0 {
			signal(ErrIndexOutOfBounds, "first on an empty array")
		}
		return arr.Elements[0], true

	case "last":
		if len(arr.Elements) == 0 {
			signal(ErrIndexOutOfBounds, "last on an empty array")
		}
		return arr.Elements[len(arr.Elements)-1], true

	case "includes:":
		for _, el := range arr.Elements {
			if i.valueEqual(el, args[0]) {
				return True, true
			}
		}
		return False, true

	case "do:":
		body := i.blockArg(args[0], "do:")
		for _, el := range arr.Elements {
			i.invokeBlock(body, []Value{el}, true)
		}
		return recv, true

	case "collect:":
		body := i.blockArg(args[0], "collect:")
		out := make([]Value, len(arr.Elements))
		for j, el := range arr.Elements {
			out[j] = i.invokeBlock(body, []Value{el}, true)
		}
		return i.Heap.NewArray(out), true

	case "select:":
		body := i.blockArg(args[0], "select:")
		var out []Value
		for _, el := range arr.Elements {
			if i.invokeBlock(body, []Value{el}, true) == True {
				out = append(out, el)
			}
		}
		return i.Heap.NewArray(out), true

	case "reject:":
		body := i.blockArg(args[0], "reject:")
		var out []Value
		for _, el := range arr.Elements {
			if i.invokeBlock(body, []Value{el}, true) != True {
				out = append(out, el)
			}
		}
		return i.Heap.NewArray(out), true

	case "inject:into:":
		body := i.blockArg(args[1], "inject:into:")
		acc := args[0]
		for _, el := range arr.Elements {
			acc = i.invokeBlock(body, []Value{acc, el}, true)
		}
		return acc, true

	case "=":
		other := i.Heap.Array(args[0])
		if other == nil || len(other.Elements) != len(arr.Elements) {
			return False, true
		}
		for j, el := range arr.Elements {
			if !i.valueEqual(el, other.Elements[j]) {
				return False, true
			}
		}
		return True, true
	}

	return Nil, false
}

// arrayIndex validates a 1-based index against the array's current size.
func (i *Interp) arrayIndex(arr *ArrayObject, idx Value) int64 {
	i.checkNoValue("at:", idx)
	if !idx.IsSmallInt() {
		signal(ErrInvalidArgument, "array index must be an integer, got %s",
			i.PrintString(idx))
	}
	n := idx.SmallInt()
	if n < 1 || n > int64(len(arr.Elements)) {
		signal(ErrIndexOutOfBounds, "index %d for array of size %d",
			n, len(arr.Elements))
	}
	return n
}

// blockArg fetches a block argument for an iteration selector.
func (i *Interp) blockArg(v Value, selector string) *BlockObject {
	b := i.Heap.Block(v)
	if b == nil {
		signal(ErrInvalidArgument, "#%s expects a block argument", selector)
	}
	return b
}

// valueEqual is structural equality for includes: and array =. Arrays
// compare element-wise; cyclic arrays will not terminate, matching the
// behavior of a recursive = send.
func (i *Interp) valueEqual(a, b Value) bool {
	if a == b {
		return true
	}
	if a.IsNumber() && b.IsNumber() {
		return numEqual(a, b)
	}
	if a.IsString() && b.IsString() {
		return i.Heap.StringContent(a) == i.Heap.StringContent(b)
	}
	if a.IsArray() && b.IsArray() {
		x, y := i.Heap.Array(a), i.Heap.Array(b)
		if x == nil || y == nil || len(x.Elements) != len(y.Elements) {
			return false
		}
		for j := range x.Elements {
			if !i.valueEqual(x.Elements[j], y.Elements[j]) {
				return false
			}
		}
		return true
	}
	return false
}
