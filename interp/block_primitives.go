package interp

// ---------------------------------------------------------------------------
// Block Primitives
// ---------------------------------------------------------------------------

// sendBlock implements the value family (strict arity), the cull family
// (lenient arity), the while loops, and spawn.
func (i *Interp) sendBlock(recv Value, selector string, args []Value) (Value, bool) {
	if !recv.IsBlock() {
		return Nil, false
	}
	b := i.Heap.Block(recv)
	if b == nil {
		return Nil, false
	}

	switch selector {
	// Strict invocation: argument count must match the parameter count
	// exactly or WrongArgumentCountError is signaled.
	case "value", "value:", "value:value:", "value:value:value:",
		"value:value:value:value:":
		return i.invokeBlock(b, args, true), true

	case "valueWithArguments:":
		arr := i.Heap.Array(args[0])
		if arr == nil {
			signal(ErrInvalidArgument, "valueWithArguments: expects an array")
		}
		return i.invokeBlock(b, arr.Elements, true), true

	// Lenient invocation: extra arguments are ignored, unfilled
	// parameters bind to the no-value sentinel.
	case "cull:", "cull:cull:", "cull:cull:cull:":
		return i.invokeBlock(b, args, false), true

	case "cullWithArguments:":
		arr := i.Heap.Array(args[0])
		if arr == nil {
			signal(ErrInvalidArgument, "cullWithArguments: expects an array")
		}
		return i.invokeBlock(b, arr.Elements, false), true

	case "numArgs":
		return FromSmallInt(int64(b.NumArgs())), true

	case "whileTrue":
		for {
			if i.invokeBlock(b, nil, true) != True {
				break
			}
		}
		return Nil, true

	case "whileTrue:":
		body := i.Heap.Block(args[0])
		if body == nil {
			signal(ErrInvalidArgument, "whileTrue: expects a block argument")
		}
		for {
			if i.invokeBlock(b, nil, true) != True {
				break
			}
			i.invokeBlock(body, nil, true)
		}
		return Nil, true

	case "whileFalse":
		for {
			if i.invokeBlock(b, nil, true) == True {
				break
			}
		}
		return Nil, true

	case "whileFalse:":
		body := i.Heap.Block(args[0])
		if body == nil {
			signal(ErrInvalidArgument, "whileFalse: expects a block argument")
		}
		for {
			if i.invokeBlock(b, nil, true) == True {
				break
			}
			i.invokeBlock(body, nil, true)
		}
		return Nil, true

	case "spawn":
		return i.spawnBlock(b), true
	}

	return Nil, false
}
