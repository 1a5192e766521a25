package interp

// ---------------------------------------------------------------------------
// Primitive dispatch
// ---------------------------------------------------------------------------

// send dispatches a message to the primitive that implements selector for
// the receiver's kind. Kind-specific tables are consulted first so that
// they can shadow the common selectors; an unmatched selector signals
// MessageNotUnderstood. Full class-based method dispatch is deliberately
// absent: the only callables are blocks and these primitives.
func (i *Interp) send(recv Value, selector string, args []Value) Value {
	if v, ok := i.sendBlock(recv, selector, args); ok {
		return v
	}
	if v, ok := i.sendBoolean(recv, selector, args); ok {
		return v
	}
	if v, ok := i.sendNumber(recv, selector, args); ok {
		return v
	}
	if v, ok := i.sendString(recv, selector, args); ok {
		return v
	}
	if v, ok := i.sendSymbol(recv, selector, args); ok {
		return v
	}
	if v, ok := i.sendArray(recv, selector, args); ok {
		return v
	}
	if v, ok := i.sendProcess(recv, selector, args); ok {
		return v
	}
	if v, ok := i.sendCommon(recv, selector, args); ok {
		return v
	}
	signal(ErrDoesNotUnderstand, "%s does not understand #%s",
		i.PrintString(recv), selector)
	return Nil
}

// checkNoValue signals NoValueError when any of the given values is the
// no-value sentinel. Arithmetic, comparison, and collection primitives
// refuse to operate on it; the sentinel is only inspectable (isNoValue,
// printString) and passable.
func (i *Interp) checkNoValue(selector string, values ...Value) {
	for _, v := range values {
		if v == NoValue {
			signal(ErrNoValue, "#%s applied to the no-value sentinel", selector)
		}
	}
}
