package interp

import "fmt"

// ---------------------------------------------------------------------------
// Error signaling
// ---------------------------------------------------------------------------

// ErrorKind classifies a signaled evaluation error.
type ErrorKind int

const (
	// ErrUnresolvedName: a variable reference matched no cell anywhere in
	// the capture chain and no global binding.
	ErrUnresolvedName ErrorKind = iota

	// ErrWrongArgumentCount: a strict invocation supplied an argument
	// count different from the block's parameter count.
	ErrWrongArgumentCount

	// ErrBlockCannotReturn: a non-local return reached the top of the
	// stack without finding its home activation still executing.
	ErrBlockCannotReturn

	// ErrDoesNotUnderstand: no primitive matches the selector for the
	// receiver.
	ErrDoesNotUnderstand

	// ErrZeroDivide: integer division or modulo by zero.
	ErrZeroDivide

	// ErrNoValue: an operation was applied to the noValue sentinel.
	ErrNoValue

	// ErrIndexOutOfBounds: array or string index outside 1..size.
	ErrIndexOutOfBounds

	// ErrInvalidArgument: a primitive received an argument of an
	// unsupported type.
	ErrInvalidArgument
)

// String returns the Smalltalk-style error class name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnresolvedName:
		return "UnresolvedNameError"
	case ErrWrongArgumentCount:
		return "WrongArgumentCountError"
	case ErrBlockCannotReturn:
		return "BlockCannotReturn"
	case ErrDoesNotUnderstand:
		return "MessageNotUnderstood"
	case ErrZeroDivide:
		return "ZeroDivide"
	case ErrNoValue:
		return "NoValueError"
	case ErrIndexOutOfBounds:
		return "SubscriptOutOfBounds"
	case ErrInvalidArgument:
		return "InvalidArgument"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// EvalError is the error returned to the driver when an evaluation aborts.
// The interpreter only detects and signals; recovery belongs to the caller.
type EvalError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// SignaledError is panicked when an evaluation step fails. It unwinds the
// Go stack up to the evaluation entry point, which converts it to an
// *EvalError. Cells and activations already committed are unaffected.
type SignaledError struct {
	Err *EvalError
}

// signal aborts the current evaluation with the given error.
func signal(kind ErrorKind, format string, args ...any) {
	panic(SignaledError{Err: &EvalError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}})
}

// ---------------------------------------------------------------------------
// Non-local return
// ---------------------------------------------------------------------------

// NonLocalReturn is panicked when a block body executes ^expr. It
// propagates up through every intervening block call until it reaches the
// evaluation frame whose activation id matches HomeID. Reaching the top of
// the stack without a match means the home activation already returned;
// the entry point converts that into ErrBlockCannotReturn.
type NonLocalReturn struct {
	Value  Value
	HomeID int32
}
