package heap

import (
	"math"
)

// Value represents an Embla value using NaN-boxing.
//
// All values are represented as 64-bit IEEE 754 doubles. Non-float values
// are encoded in the NaN (Not-a-Number) space using the quiet NaN prefix
// and tag bits to distinguish types.
//
// Encoding scheme:
//   - Float: Native IEEE 754 double (if not a NaN, it's a float)
//   - SmallInt: Quiet NaN + tagInt + 48-bit signed payload
//   - Char: Quiet NaN + tagChar + 21-bit Unicode codepoint
//   - Fixed: Quiet NaN + tagFixed + 32-bit Q16.16 fixed-point payload
//   - Special: Quiet NaN + tagSpecial + special value ID (nil/true/false)
//   - Handle: Quiet NaN + tagHandle + 48-bit heap object ID
//
// Everything except Handle is an immediate: it lives entirely in the
// Value itself, is never heap-allocated, and is invisible to the
// reference-counting engine. Only Handle values reach Retain/Release.
type Value uint64

// NaN-boxing constants
const (
	// Quiet NaN prefix: exponent all 1s, quiet bit set, sign bit 0
	// 0x7FF8_0000_0000_0000
	nanBits uint64 = 0x7FF8000000000000

	// Tag mask: 3 bits within the NaN mantissa space
	// 0x0007_0000_0000_0000
	tagMask uint64 = 0x0007000000000000

	// Payload mask: 48 bits for IDs and immediate payloads
	payloadMask uint64 = 0x0000FFFFFFFFFFFF

	// Tag values (shifted into position)
	tagHandle  uint64 = 0x0001000000000000 // Heap object ID
	tagInt     uint64 = 0x0002000000000000 // 48-bit signed integer
	tagSpecial uint64 = 0x0003000000000000 // nil, true, false
	tagChar    uint64 = 0x0004000000000000 // Unicode codepoint
	tagFixed   uint64 = 0x0005000000000000 // Q16.16 fixed-point

	// Sign bit for 48-bit integer sign extension
	intSignBit uint64 = 0x0000800000000000

	// Mask for sign extension
	intSignExtend uint64 = 0xFFFF000000000000
)

// Special value payloads
const (
	specialNil   uint64 = 0
	specialTrue  uint64 = 1
	specialFalse uint64 = 2
)

// Pre-defined special values
const (
	Nil   Value = Value(nanBits | tagSpecial | specialNil)
	True  Value = Value(nanBits | tagSpecial | specialTrue)
	False Value = Value(nanBits | tagSpecial | specialFalse)
)

// SmallInt range (48-bit signed)
const (
	MaxSmallInt int64 = (1 << 47) - 1
	MinSmallInt int64 = -(1 << 47)
)

// MaxChar is the highest encodable Unicode codepoint (21 bits).
const MaxChar rune = (1 << 21) - 1

// fixedScale is the Q16.16 scale factor.
const fixedScale float64 = 1 << 16

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// IsFloat returns true if v represents a float64 value.
// A value is a float if it's not one of our tagged NaN values.
// This includes regular numbers, infinities, and "real" NaN values.
func (v Value) IsFloat() bool {
	bits := uint64(v)

	// Exponent not all 1s: a regular float.
	if (bits & 0x7FF0000000000000) != 0x7FF0000000000000 {
		return true
	}

	// Exponent all 1s. Infinity has a zero mantissa.
	mantissa := bits & 0x000FFFFFFFFFFFFF
	if mantissa == 0 {
		return true
	}

	// Signaling NaNs are not ours; treat as float.
	if (bits & nanBits) != nanBits {
		return true
	}

	// An untagged quiet NaN is a "real" NaN, also a float.
	return bits&tagMask == 0
}

// IsHandle returns true if v references a heap object.
func (v Value) IsHandle() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagHandle)
}

// IsSmallInt returns true if v represents a small integer.
func (v Value) IsSmallInt() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagInt)
}

// IsChar returns true if v represents a character.
func (v Value) IsChar() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagChar)
}

// IsFixed returns true if v represents a Q16.16 fixed-point number.
func (v Value) IsFixed() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagFixed)
}

// IsSpecial returns true if v is nil, true, or false.
func (v Value) IsSpecial() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagSpecial)
}

// IsNil returns true if v is the nil value.
func (v Value) IsNil() bool {
	return v == Nil
}

// IsBool returns true if v is true or false.
func (v Value) IsBool() bool {
	return v == True || v == False
}

// IsImmediate returns true if v is encoded entirely in the value slot:
// floats, small integers, characters, fixed-point numbers, and the
// nil/true/false specials. Immediates never touch the heap and every
// memory operation on them is a no-op.
func (v Value) IsImmediate() bool {
	return !v.IsHandle()
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

// TryFromSmallInt creates a Value from an int64, returning false if out of range.
func TryFromSmallInt(n int64) (Value, bool) {
	if n > MaxSmallInt || n < MinSmallInt {
		return Nil, false
	}
	return Value(nanBits | tagInt | (uint64(n) & payloadMask)), true
}

// ---------------------------------------------------------------------------
// Char operations
// ---------------------------------------------------------------------------

// Char returns v as a rune.
// Panics if v is not a character.
func (v Value) Char() rune {
	if !v.IsChar() {
		panic("Value.Char: not a character")
	}
	return rune(uint64(v) & payloadMask)
}

// FromChar creates a Value from a Unicode codepoint.
// Panics if the codepoint is outside the 21-bit range.
func FromChar(r rune) Value {
	if r < 0 || r > MaxChar {
		panic("FromChar: codepoint out of range")
	}
	return Value(nanBits | tagChar | uint64(r))
}

// ---------------------------------------------------------------------------
// Fixed-point operations
// ---------------------------------------------------------------------------

// Fixed returns v as a float64, decoded from Q16.16.
// Panics if v is not a fixed-point value.
func (v Value) Fixed() float64 {
	if !v.IsFixed() {
		panic("Value.Fixed: not a fixed-point value")
	}
	raw := int32(uint64(v) & 0xFFFFFFFF)
	return float64(raw) / fixedScale
}

// FixedRaw returns the raw Q16.16 bits of a fixed-point value.
func (v Value) FixedRaw() int32 {
	if !v.IsFixed() {
		panic("Value.FixedRaw: not a fixed-point value")
	}
	return int32(uint64(v) & 0xFFFFFFFF)
}

// FromFixed creates a Q16.16 fixed-point Value from a float64,
// rounding to the nearest representable step.
// Panics if f is outside the representable range.
func FromFixed(f float64) Value {
	scaled := math.Round(f * fixedScale)
	if scaled > math.MaxInt32 || scaled < math.MinInt32 {
		panic("FromFixed: value out of range")
	}
	return FromFixedRaw(int32(scaled))
}

// FromFixedRaw creates a fixed-point Value from raw Q16.16 bits.
func FromFixedRaw(raw int32) Value {
	return Value(nanBits | tagFixed | (uint64(uint32(raw)) & payloadMask))
}

// ---------------------------------------------------------------------------
// Handle operations
// ---------------------------------------------------------------------------

// id returns the heap object ID encoded in v.
// Panics if v is not a handle.
func (v Value) id() uint64 {
	if !v.IsHandle() {
		panic("Value.id: not a heap handle")
	}
	return uint64(v) & payloadMask
}

// fromID creates a handle Value from a heap object ID.
// IDs are allocated monotonically by the Heap and never exceed 48 bits.
func fromID(id uint64) Value {
	return Value(nanBits | tagHandle | id)
}

// FromBool creates a Value from a Go bool.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}
