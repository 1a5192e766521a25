package interp

import "fmt"

// ---------------------------------------------------------------------------
// Common Primitives
// ---------------------------------------------------------------------------

// sendCommon implements the selectors every value answers. Consulted last,
// so kind-specific implementations of = and printing win.
func (i *Interp) sendCommon(recv Value, selector string, args []Value) (Value, bool) {
	switch selector {
	case "printString":
		return i.Heap.NewString(i.PrintString(recv)), true

	case "printNl":
		fmt.Fprintln(i.Out, i.PrintString(recv))
		return recv, true

	case "print":
		fmt.Fprint(i.Out, i.DisplayString(recv))
		return recv, true

	case "=", "==":
		return FromBool(recv == args[0]), true

	case "~=", "~~":
		return FromBool(recv != args[0]), true

	case "isNil":
		return FromBool(recv == Nil), true

	case "notNil":
		return FromBool(recv != Nil), true

	case "isNoValue":
		return FromBool(recv == NoValue), true

	case "yourself":
		return recv, true

	case "ifNil:":
		if recv == Nil {
			return i.invokeBlockArg(args[0], "ifNil:"), true
		}
		return recv, true

	case "ifNotNil:":
		if recv == Nil {
			return Nil, true
		}
		b := i.Heap.Block(args[0])
		if b == nil {
			signal(ErrInvalidArgument, "ifNotNil: expects a block argument")
		}
		// The block may take the value or nothing; lenient fits both.
		return i.invokeBlock(b, []Value{recv}, false), true

	case "ifNil:ifNotNil:":
		if recv == Nil {
			return i.invokeBlockArg(args[0], "ifNil:ifNotNil:"), true
		}
		b := i.Heap.Block(args[1])
		if b == nil {
			signal(ErrInvalidArgument, "ifNil:ifNotNil: expects block arguments")
		}
		return i.invokeBlock(b, []Value{recv}, false), true
	}

	return Nil, false
}
