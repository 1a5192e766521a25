package interp

// ---------------------------------------------------------------------------
// Boolean Primitives
// ---------------------------------------------------------------------------

// sendBoolean implements conditionals and logical operators on true/false.
// The branch selectors take blocks and evaluate only the selected one.
func (i *Interp) sendBoolean(recv Value, selector string, args []Value) (Value, bool) {
	if !recv.IsBool() {
		return Nil, false
	}

	switch selector {
	case "not":
		return FromBool(recv == False), true

	case "&":
		return FromBool(recv == True && args[0] == True), true

	case "|":
		return FromBool(recv == True || args[0] == True), true

	case "and:":
		if recv == False {
			return False, true
		}
		return i.invokeBlockArg(args[0], "and:"), true

	case "or:":
		if recv == True {
			return True, true
		}
		return i.invokeBlockArg(args[0], "or:"), true

	case "ifTrue:":
		if recv == True {
			return i.invokeBlockArg(args[0], "ifTrue:"), true
		}
		return Nil, true

	case "ifFalse:":
		if recv == False {
			return i.invokeBlockArg(args[0], "ifFalse:"), true
		}
		return Nil, true

	case "ifTrue:ifFalse:":
		if recv == True {
			return i.invokeBlockArg(args[0], "ifTrue:ifFalse:"), true
		}
		return i.invokeBlockArg(args[1], "ifTrue:ifFalse:"), true

	case "ifFalse:ifTrue:":
		if recv == False {
			return i.invokeBlockArg(args[0], "ifFalse:ifTrue:"), true
		}
		return i.invokeBlockArg(args[1], "ifFalse:ifTrue:"), true
	}

	return Nil, false
}

// invokeBlockArg evaluates a zero-argument block passed to a control-flow
// selector.
func (i *Interp) invokeBlockArg(v Value, selector string) Value {
	b := i.Heap.Block(v)
	if b == nil {
		signal(ErrInvalidArgument, "#%s expects a block argument", selector)
	}
	return i.invokeBlock(b, nil, true)
}
