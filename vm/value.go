package vm

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBoolean
	KindInteger
	KindReal
)

var kindNames = map[Kind]string{
	KindVoid:    "Void",
	KindBoolean: "Boolean",
	KindInteger: "Integer",
	KindReal:    "Real",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is a tagged runtime value. It is copied by value and owns no heap
// memory. Only the field matching Kind is meaningful.
type Value struct {
	kind Kind
	bits uint64
}

// Void is the absence of a result.
var Void = Value{kind: KindVoid}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// Bool creates a Boolean value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBoolean, bits: 1}
	}
	return Value{kind: KindBoolean}
}

// Int creates an Integer value.
func Int(n int64) Value {
	return Value{kind: KindInteger, bits: uint64(n)}
}

// Real creates a Real value.
func Real(f float64) Value {
	return Value{kind: KindReal, bits: math.Float64bits(f)}
}

// ---------------------------------------------------------------------------
// Type checking and extraction
// ---------------------------------------------------------------------------

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsVoid() bool    { return v.kind == KindVoid }
func (v Value) IsBoolean() bool { return v.kind == KindBoolean }
func (v Value) IsInteger() bool { return v.kind == KindInteger }
func (v Value) IsReal() bool    { return v.kind == KindReal }

// IsNumeric returns true for Integer and Real values.
func (v Value) IsNumeric() bool {
	return v.kind == KindInteger || v.kind == KindReal
}

// AsBool returns the boolean payload and whether v is a Boolean.
func (v Value) AsBool() (bool, bool) {
	return v.bits != 0, v.kind == KindBoolean
}

// AsInt returns the integer payload and whether v is an Integer.
func (v Value) AsInt() (int64, bool) {
	return int64(v.bits), v.kind == KindInteger
}

// AsReal returns the real payload and whether v is a Real.
func (v Value) AsReal() (float64, bool) {
	return math.Float64frombits(v.bits), v.kind == KindReal
}

// Float64 returns a numeric value promoted to float64.
// It returns 0 for non-numeric values.
func (v Value) Float64() float64 {
	switch v.kind {
	case KindInteger:
		return float64(int64(v.bits))
	case KindReal:
		return math.Float64frombits(v.bits)
	default:
		return 0
	}
}

// Equal reports whether v and other hold the same variant and payload.
// Reals compare by IEEE equality, so NaN is never equal to itself.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == KindReal {
		return v.Float64() == other.Float64()
	}
	return v.bits == other.bits
}

// String renders v the way results are printed: () for Void, true/false,
// decimal integers, and the shortest decimal form for reals.
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		if v.bits != 0 {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(int64(v.bits), 10)
	case KindReal:
		return formatReal(math.Float64frombits(v.bits))
	default:
		return "()"
	}
}

func formatReal(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
