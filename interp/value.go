package interp

import (
	"math"
)

// Value represents a Minitalk value using NaN-boxing.
//
// All values are represented as 64-bit IEEE 754 doubles. Non-float values
// are encoded in the NaN (Not-a-Number) space using the quiet NaN prefix
// and tag bits to distinguish types.
//
// Encoding scheme:
//   - Float: Native IEEE 754 double (if not a NaN, it's a float)
//   - SmallInt: Quiet NaN + tagInt + 48-bit signed payload
//   - Symbol: Quiet NaN + tagSymbol + symbol ID
//   - String: Quiet NaN + tagString + heap ID
//   - Array: Quiet NaN + tagArray + heap ID
//   - Block: Quiet NaN + tagBlock + heap ID
//   - Cell: Quiet NaN + tagCell + heap ID
//   - Special: Quiet NaN + tagSpecial + special value ID (nil/true/false/noValue)
type Value uint64

// NaN-boxing constants
const (
	// Quiet NaN prefix: exponent all 1s, quiet bit set, sign bit 0
	// 0x7FF8_0000_0000_0000
	nanBits uint64 = 0x7FF8000000000000

	// Tag mask: 3 bits within the NaN mantissa space
	// 0x0007_0000_0000_0000
	tagMask uint64 = 0x0007000000000000

	// Payload mask: 48 bits for id/int
	// 0x0000_FFFF_FFFF_FFFF
	payloadMask uint64 = 0x0000FFFFFFFFFFFF

	// Tag values (shifted into position)
	tagInt     uint64 = 0x0001000000000000 // 48-bit signed integer
	tagSpecial uint64 = 0x0002000000000000 // nil, true, false, noValue
	tagSymbol  uint64 = 0x0003000000000000 // Interned symbol ID
	tagString  uint64 = 0x0004000000000000 // Heap string ID
	tagArray   uint64 = 0x0005000000000000 // Heap array ID
	tagBlock   uint64 = 0x0006000000000000 // Heap block closure ID
	tagCell    uint64 = 0x0007000000000000 // Heap cell ID

	// Sign bit for 48-bit integer sign extension
	intSignBit uint64 = 0x0000800000000000

	// Mask for sign extension
	intSignExtend uint64 = 0xFFFF000000000000
)

// Special value payloads
const (
	specialNil     uint64 = 0
	specialTrue    uint64 = 1
	specialFalse   uint64 = 2
	specialNoValue uint64 = 3
)

// Pre-defined special values. NoValue is the sentinel bound to block
// parameters left unfilled by a lenient (cull:-family) invocation; it is
// distinct from Nil so that downstream operations can detect it.
const (
	Nil     Value = Value(nanBits | tagSpecial | specialNil)
	True    Value = Value(nanBits | tagSpecial | specialTrue)
	False   Value = Value(nanBits | tagSpecial | specialFalse)
	NoValue Value = Value(nanBits | tagSpecial | specialNoValue)
)

// SmallInt range (48-bit signed)
const (
	MaxSmallInt int64 = (1 << 47) - 1
	MinSmallInt int64 = -(1 << 47)
)

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// IsFloat returns true if v represents a float64 value.
// A value is a float if it's not one of our tagged NaN values.
// This includes regular numbers, infinities, and "real" NaN values.
func (v Value) IsFloat() bool {
	bits := uint64(v)

	// Check if it's a NaN or Infinity (exponent all 1s)
	if (bits & 0x7FF0000000000000) != 0x7FF0000000000000 {
		// Exponent is not all 1s, so it's a regular float
		return true
	}

	// Exponent is all 1s. Could be Infinity or NaN.
	// Infinity has mantissa == 0 (ignoring sign bit)
	mantissa := bits & 0x000FFFFFFFFFFFFF
	if mantissa == 0 {
		return true
	}

	// It's a NaN. Our tagged values have the quiet NaN bit set plus a
	// non-zero tag.
	if (bits & nanBits) != nanBits {
		// Quiet NaN bit not set - it's a signaling NaN, treat as float
		return true
	}

	tag := bits & tagMask
	if tag == 0 {
		// No tag bits set - it's a "real" quiet NaN, treat as float
		return true
	}

	return false
}

// IsSmallInt returns true if v represents a small integer.
func (v Value) IsSmallInt() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagInt)
}

// IsSymbol returns true if v represents an interned symbol.
func (v Value) IsSymbol() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagSymbol)
}

// IsString returns true if v represents a heap string.
func (v Value) IsString() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagString)
}

// IsArray returns true if v represents a heap array.
func (v Value) IsArray() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagArray)
}

// IsBlock returns true if v represents a block closure.
func (v Value) IsBlock() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagBlock)
}

// IsCell returns true if v represents a variable cell.
func (v Value) IsCell() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagCell)
}

// IsNil returns true if v is the nil value.
func (v Value) IsNil() bool {
	return v == Nil
}

// IsNoValue returns true if v is the no-value sentinel.
func (v Value) IsNoValue() bool {
	return v == NoValue
}

// IsBool returns true if v is true or false.
func (v Value) IsBool() bool {
	return v == True || v == False
}

// IsSpecial returns true if v is nil, true, false, or noValue.
func (v Value) IsSpecial() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagSpecial)
}

// IsNumber returns true if v is a small integer or a float.
func (v Value) IsNumber() bool {
	return v.IsSmallInt() || v.IsFloat()
}

// ---------------------------------------------------------------------------
// Float operations
// ---------------------------------------------------------------------------

// Float64 returns v as a float64.
// Panics if v is not a float.
func (v Value) Float64() float64 {
	if !v.IsFloat() {
		panic("Value.Float64: not a float")
	}
	return math.Float64frombits(uint64(v))
}

// FromFloat64 creates a Value from a float64.
func FromFloat64(f float64) Value {
	return Value(math.Float64bits(f))
}

// ---------------------------------------------------------------------------
// SmallInt operations
// ---------------------------------------------------------------------------

// SmallInt returns v as an int64.
// Panics if v is not a small integer.
func (v Value) SmallInt() int64 {
	if !v.IsSmallInt() {
		panic("Value.SmallInt: not a small integer")
	}
	payload := uint64(v) & payloadMask

	// Sign extend from 48 bits to 64 bits
	if (payload & intSignBit) != 0 {
		payload |= intSignExtend
	}
	return int64(payload)
}

// FromSmallInt creates a Value from an int64.
// Panics if n is outside the SmallInt range.
func FromSmallInt(n int64) Value {
	if n > MaxSmallInt || n < MinSmallInt {
		panic("FromSmallInt: value out of range")
	}
	return Value(nanBits | tagInt | (uint64(n) & payloadMask))
}

// ---------------------------------------------------------------------------
// Heap-id operations
// ---------------------------------------------------------------------------

// SymbolID returns the symbol ID encoded in v.
// Panics if v is not a symbol.
func (v Value) SymbolID() uint32 {
	if !v.IsSymbol() {
		panic("Value.SymbolID: not a symbol")
	}
	return uint32(uint64(v) & payloadMask)
}

// FromSymbolID creates a Value from a symbol ID.
func FromSymbolID(id uint32) Value {
	return Value(nanBits | tagSymbol | uint64(id))
}

// StringID returns the heap ID for a string value.
func (v Value) StringID() uint32 {
	if !v.IsString() {
		panic("Value.StringID: not a string")
	}
	return uint32(uint64(v) & payloadMask)
}

// FromStringID creates a Value from a heap string ID.
func FromStringID(id uint32) Value {
	return Value(nanBits | tagString | uint64(id))
}

// ArrayID returns the heap ID for an array value.
func (v Value) ArrayID() uint32 {
	if !v.IsArray() {
		panic("Value.ArrayID: not an array")
	}
	return uint32(uint64(v) & payloadMask)
}

// FromArrayID creates a Value from a heap array ID.
func FromArrayID(id uint32) Value {
	return Value(nanBits | tagArray | uint64(id))
}

// BlockID returns the heap ID for a block value.
func (v Value) BlockID() uint32 {
	if !v.IsBlock() {
		panic("Value.BlockID: not a block")
	}
	return uint32(uint64(v) & payloadMask)
}

// FromBlockID creates a Value from a heap block ID.
func FromBlockID(id uint32) Value {
	return Value(nanBits | tagBlock | uint64(id))
}

// CellID returns the heap ID for a cell value.
func (v Value) CellID() uint32 {
	if !v.IsCell() {
		panic("Value.CellID: not a cell")
	}
	return uint32(uint64(v) & payloadMask)
}

// FromCellID creates a Value from a heap cell ID.
func FromCellID(id uint32) Value {
	return Value(nanBits | tagCell | uint64(id))
}

// ---------------------------------------------------------------------------
// Boolean operations
// ---------------------------------------------------------------------------

// Bool returns v as a bool.
// Panics if v is not true or false.
func (v Value) Bool() bool {
	switch v {
	case True:
		return true
	case False:
		return false
	default:
		panic("Value.Bool: not a boolean")
	}
}

// FromBool creates a Value from a bool.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// ---------------------------------------------------------------------------
// Truthiness
// ---------------------------------------------------------------------------

// IsTruthy returns true if v is considered "truthy" in conditionals.
// Only false and nil are falsy; everything else, noValue included, is truthy.
func (v Value) IsTruthy() bool {
	return v != False && v != Nil
}

// IsFalsy returns true if v is considered "falsy" in conditionals.
func (v Value) IsFalsy() bool {
	return v == False || v == Nil
}
