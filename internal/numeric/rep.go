// Package numeric describes the numeric storage representations the
// conversion analysis reasons about: their kind, their representable range,
// and the exact scalar values that live inside them.
package numeric

import (
	"errors"
	"fmt"
	"math"
)

// Kind classifies a storage representation.
type Kind int

const (
	// KindSignedInt is a two's-complement signed integer.
	KindSignedInt Kind = iota
	// KindUnsignedInt is an unsigned integer.
	KindUnsignedInt
	// KindFloat is an IEEE 754 binary floating-point type.
	KindFloat
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindSignedInt:
		return "signed"
	case KindUnsignedInt:
		return "unsigned"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// ErrUnknownRep is returned when a representation name cannot be parsed.
var ErrUnknownRep = errors.New("unknown numeric representation")

// Rep describes a numeric storage representation. It is an immutable value
// object; the zero value is not a valid representation.
type Rep struct {
	kind Kind
	bits int
}

// Standard representations.
var (
	Int8    = Rep{KindSignedInt, 8}
	Int16   = Rep{KindSignedInt, 16}
	Int32   = Rep{KindSignedInt, 32}
	Int64   = Rep{KindSignedInt, 64}
	Uint8   = Rep{KindUnsignedInt, 8}
	Uint16  = Rep{KindUnsignedInt, 16}
	Uint32  = Rep{KindUnsignedInt, 32}
	Uint64  = Rep{KindUnsignedInt, 64}
	Float32 = Rep{KindFloat, 32}
	Float64 = Rep{KindFloat, 64}
)

// Kind returns the representation's kind.
func (r Rep) Kind() Kind { return r.kind }

// Bits returns the storage width in bits.
func (r Rep) Bits() int { return r.bits }

// IsInteger reports whether the representation stores integers.
func (r Rep) IsInteger() bool { return r.kind == KindSignedInt || r.kind == KindUnsignedInt }

// IsSigned reports whether the representation can store negative values.
func (r Rep) IsSigned() bool { return r.kind != KindUnsignedInt }

// IsFloat reports whether the representation is floating point.
func (r Rep) IsFloat() bool { return r.kind == KindFloat }

// IsValid reports whether the representation is one of the standard reps.
func (r Rep) IsValid() bool {
	switch r.kind {
	case KindSignedInt, KindUnsignedInt:
		return r.bits == 8 || r.bits == 16 || r.bits == 32 || r.bits == 64
	case KindFloat:
		return r.bits == 32 || r.bits == 64
	default:
		return false
	}
}

// String returns the Go-style name of the representation.
func (r Rep) String() string {
	switch r.kind {
	case KindSignedInt:
		return fmt.Sprintf("int%d", r.bits)
	case KindUnsignedInt:
		return fmt.Sprintf("uint%d", r.bits)
	case KindFloat:
		return fmt.Sprintf("float%d", r.bits)
	default:
		return fmt.Sprintf("rep(%d,%d)", r.kind, r.bits)
	}
}

// ParseRep parses a Go-style representation name such as "int32" or "float64".
func ParseRep(s string) (Rep, error) {
	for _, r := range []Rep{
		Int8, Int16, Int32, Int64,
		Uint8, Uint16, Uint32, Uint64,
		Float32, Float64,
	} {
		if r.String() == s {
			return r, nil
		}
	}
	return Rep{}, fmt.Errorf("%w: %q", ErrUnknownRep, s)
}

// Lowest returns the smallest representable value. For floats this is the
// most negative finite value, matching the range the analysis guards.
func (r Rep) Lowest() Value {
	switch r.kind {
	case KindSignedInt:
		return intValue(r, -1<<(r.bits-1))
	case KindUnsignedInt:
		return uintValue(r, 0)
	default:
		if r.bits == 32 {
			return floatValue(r, -math.MaxFloat32)
		}
		return floatValue(r, -math.MaxFloat64)
	}
}

// Highest returns the largest representable value.
func (r Rep) Highest() Value {
	switch r.kind {
	case KindSignedInt:
		return intValue(r, 1<<(r.bits-1)-1)
	case KindUnsignedInt:
		if r.bits == 64 {
			return uintValue(r, math.MaxUint64)
		}
		return uintValue(r, 1<<r.bits-1)
	default:
		if r.bits == 32 {
			return floatValue(r, math.MaxFloat32)
		}
		return floatValue(r, math.MaxFloat64)
	}
}

// Zero returns the zero value in this representation.
func (r Rep) Zero() Value {
	switch r.kind {
	case KindSignedInt:
		return intValue(r, 0)
	case KindUnsignedInt:
		return uintValue(r, 0)
	default:
		return floatValue(r, 0)
	}
}

// One returns the value one in this representation.
func (r Rep) One() Value {
	switch r.kind {
	case KindSignedInt:
		return intValue(r, 1)
	case KindUnsignedInt:
		return uintValue(r, 1)
	default:
		return floatValue(r, 1)
	}
}
