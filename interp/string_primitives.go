package interp

// ---------------------------------------------------------------------------
// String and Symbol Primitives
// ---------------------------------------------------------------------------

func (i *Interp) sendString(recv Value, selector string, args []Value) (Value, bool) {
	if !recv.IsString() {
		return Nil, false
	}
	s := i.Heap.StringContent(recv)

	switch selector {
	case "size":
		return FromSmallInt(int64(len([]rune(s)))), true

	case "at:":
		i.checkNoValue(selector, args[0])
		if !args[0].IsSmallInt() {
			signal(ErrInvalidArgument, "at: expects an integer index")
		}
		runes := []rune(s)
		idx := args[0].SmallInt()
		if idx < 1 || idx > int64(len(runes)) {
			signal(ErrIndexOutOfBounds, "index %d for string of size %d",
				idx, len(runes))
		}
		return i.Heap.NewString(string(runes[idx-1])), true

	case ",":
		i.checkNoValue(selector, args[0])
		if !args[0].IsString() {
			signal(ErrInvalidArgument, "#, expects a string, got %s",
				i.PrintString(args[0]))
		}
		return i.Heap.NewString(s + i.Heap.StringContent(args[0])), true

	case "=":
		if !args[0].IsString() {
			return False, true
		}
		return FromBool(s == i.Heap.StringContent(args[0])), true

	case "~=":
		if !args[0].IsString() {
			return True, true
		}
		return FromBool(s != i.Heap.StringContent(args[0])), true

	case "isEmpty":
		return FromBool(len(s) == 0), true

	case "notEmpty":
		return FromBool(len(s) != 0), true

	case "asSymbol":
		return FromSymbolID(i.Symbols.Intern(s)), true

	case "asString":
		return recv, true
	}

	return Nil, false
}

func (i *Interp) sendSymbol(recv Value, selector string, args []Value) (Value, bool) {
	if !recv.IsSymbol() || isProcessValue(recv) {
		return Nil, false
	}

	switch selector {
	case "asString":
		return i.Heap.NewString(i.Symbols.Name(recv.SymbolID())), true

	case "=":
		return FromBool(recv == args[0]), true

	case "~=":
		return FromBool(recv != args[0]), true
	}

	return Nil, false
}
