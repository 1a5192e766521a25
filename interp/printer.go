package interp

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Printing
// ---------------------------------------------------------------------------

// PrintString renders a value the way the REPL shows results: strings
// quoted, arrays with their printed elements.
func (i *Interp) PrintString(v Value) string {
	switch {
	case v == Nil:
		return "nil"
	case v == True:
		return "true"
	case v == False:
		return "false"
	case v == NoValue:
		return "<noValue>"
	case v.IsSmallInt():
		return fmt.Sprintf("%d", v.SmallInt())
	case v.IsFloat():
		return fmt.Sprintf("%g", v.Float64())
	case v.IsString():
		return "'" + strings.ReplaceAll(i.Heap.StringContent(v), "'", "''") + "'"
	case isProcessValue(v):
		if p := i.process(v); p != nil {
			return "a Process(" + p.ID.String() + ")"
		}
		return "a Process"
	case v.IsSymbol():
		return "#" + i.Symbols.Name(v.SymbolID())
	case v.IsArray():
		arr := i.Heap.Array(v)
		if arr == nil {
			return "an Array"
		}
		parts := make([]string, len(arr.Elements))
		for j, el := range arr.Elements {
			parts[j] = i.PrintString(el)
		}
		return "#(" + strings.Join(parts, " ") + ")"
	case v.IsBlock():
		b := i.Heap.Block(v)
		if b == nil {
			return "a Block"
		}
		return fmt.Sprintf("a Block(%d args)", b.NumArgs())
	case v.IsCell():
		return "a Cell"
	default:
		return fmt.Sprintf("Value(%016x)", uint64(v))
	}
}

// DisplayString is PrintString without quoting for strings; used by the
// print primitive.
func (i *Interp) DisplayString(v Value) string {
	if v.IsString() {
		return i.Heap.StringContent(v)
	}
	return i.PrintString(v)
}
