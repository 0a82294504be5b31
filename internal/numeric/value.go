package numeric

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Value is an exact scalar stored in a specific representation. Arithmetic on
// a Value uses the native semantics of its representation: integer division
// truncates toward zero, and float32 values round through float32 precision
// after every operation.
type Value struct {
	rep Rep
	i   int64
	u   uint64
	f   float64
}

func intValue(rep Rep, v int64) Value   { return Value{rep: rep, i: v} }
func uintValue(rep Rep, v uint64) Value { return Value{rep: rep, u: v} }
func floatValue(rep Rep, v float64) Value {
	if rep.bits == 32 {
		v = float64(float32(v))
	}
	return Value{rep: rep, f: v}
}

// FromInt64 builds a Value of the given representation from an int64.
// It fails if the value is outside the representation's range.
func FromInt64(rep Rep, v int64) (Value, error) {
	switch rep.kind {
	case KindSignedInt:
		if rep.bits < 64 && (v < -1<<(rep.bits-1) || v > 1<<(rep.bits-1)-1) {
			return Value{}, fmt.Errorf("value %d out of range for %s", v, rep)
		}
		return intValue(rep, v), nil
	case KindUnsignedInt:
		if v < 0 {
			return Value{}, fmt.Errorf("value %d out of range for %s", v, rep)
		}
		return FromUint64(rep, uint64(v))
	default:
		return floatValue(rep, float64(v)), nil
	}
}

// FromUint64 builds a Value of the given representation from a uint64.
func FromUint64(rep Rep, v uint64) (Value, error) {
	switch rep.kind {
	case KindUnsignedInt:
		if rep.bits < 64 && v > 1<<rep.bits-1 {
			return Value{}, fmt.Errorf("value %d out of range for %s", v, rep)
		}
		return uintValue(rep, v), nil
	case KindSignedInt:
		if v > uint64(1<<(rep.bits-1)-1) {
			return Value{}, fmt.Errorf("value %d out of range for %s", v, rep)
		}
		return intValue(rep, int64(v)), nil
	default:
		return floatValue(rep, float64(v)), nil
	}
}

// FromFloat64 builds a float Value. It fails for integer representations and
// for non-finite inputs.
func FromFloat64(rep Rep, v float64) (Value, error) {
	if !rep.IsFloat() {
		return Value{}, fmt.Errorf("float literal not valid for %s", rep)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}, fmt.Errorf("value %v not finite", v)
	}
	return floatValue(rep, v), nil
}

// ParseValue parses a textual scalar in the given representation.
func ParseValue(rep Rep, s string) (Value, error) {
	switch rep.kind {
	case KindSignedInt:
		v, err := strconv.ParseInt(s, 10, rep.bits)
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s value %q: %w", rep, s, err)
		}
		return intValue(rep, v), nil
	case KindUnsignedInt:
		v, err := strconv.ParseUint(s, 10, rep.bits)
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s value %q: %w", rep, s, err)
		}
		return uintValue(rep, v), nil
	default:
		v, err := strconv.ParseFloat(s, rep.bits)
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s value %q: %w", rep, s, err)
		}
		return floatValue(rep, v), nil
	}
}

// Rep returns the representation the value lives in.
func (v Value) Rep() Rep { return v.rep }

// Int64 returns the raw signed integer payload. Valid only for signed reps.
func (v Value) Int64() int64 { return v.i }

// Uint64 returns the raw unsigned integer payload. Valid only for unsigned reps.
func (v Value) Uint64() uint64 { return v.u }

// Float64 returns the raw floating-point payload. Valid only for float reps.
func (v Value) Float64() float64 { return v.f }

// String formats the value the way its representation would print it.
func (v Value) String() string {
	switch v.rep.kind {
	case KindSignedInt:
		return strconv.FormatInt(v.i, 10)
	case KindUnsignedInt:
		return strconv.FormatUint(v.u, 10)
	default:
		return strconv.FormatFloat(v.f, 'g', -1, v.rep.bits)
	}
}

// Rat returns the exact rational value of the scalar. Every finite value of
// every supported representation has an exact rational form.
func (v Value) Rat() *big.Rat {
	switch v.rep.kind {
	case KindSignedInt:
		return new(big.Rat).SetInt64(v.i)
	case KindUnsignedInt:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(v.u))
	default:
		// Finite by construction: FromFloat64 and floatValue never store
		// NaN or an infinity, so SetFloat64 cannot return nil here.
		return new(big.Rat).SetFloat64(v.f)
	}
}

// Cmp exactly compares two values, which may live in different
// representations. It returns -1, 0, or +1.
func (v Value) Cmp(other Value) int {
	if v.rep == other.rep {
		switch v.rep.kind {
		case KindSignedInt:
			switch {
			case v.i < other.i:
				return -1
			case v.i > other.i:
				return 1
			}
			return 0
		case KindUnsignedInt:
			switch {
			case v.u < other.u:
				return -1
			case v.u > other.u:
				return 1
			}
			return 0
		default:
			switch {
			case v.f < other.f:
				return -1
			case v.f > other.f:
				return 1
			}
			return 0
		}
	}
	return v.Rat().Cmp(other.Rat())
}

// Equal reports whether two values have the same representation and payload.
func (v Value) Equal(other Value) bool {
	return v.rep == other.rep && v.Cmp(other) == 0
}

// IsZero reports whether the value is zero.
func (v Value) IsZero() bool { return v.Cmp(v.rep.Zero()) == 0 }

// Neg returns the negated value in the same representation. Negating the
// lowest signed value is the caller's responsibility to avoid.
func (v Value) Neg() Value {
	switch v.rep.kind {
	case KindSignedInt:
		return intValue(v.rep, -v.i)
	case KindUnsignedInt:
		return uintValue(v.rep, 0)
	default:
		return floatValue(v.rep, -v.f)
	}
}

// Div divides by another value of the same representation using native
// semantics: integer division truncates toward zero.
func (v Value) Div(by Value) Value {
	switch v.rep.kind {
	case KindSignedInt:
		return intValue(v.rep, v.i/by.i)
	case KindUnsignedInt:
		return uintValue(v.rep, v.u/by.u)
	default:
		return floatValue(v.rep, v.f/by.f)
	}
}

// Mul multiplies by another value of the same representation using native
// semantics. The caller is responsible for preventing integer overflow.
func (v Value) Mul(by Value) Value {
	switch v.rep.kind {
	case KindSignedInt:
		return intValue(v.rep, v.i*by.i)
	case KindUnsignedInt:
		return uintValue(v.rep, v.u*by.u)
	default:
		return floatValue(v.rep, v.f*by.f)
	}
}

// Convert re-expresses the value in another representation using the native
// conversion of the host language: float-to-int truncates toward zero, and
// out-of-range integer targets saturate at the destination extreme.
func (v Value) Convert(to Rep) Value {
	if to.IsFloat() {
		switch v.rep.kind {
		case KindSignedInt:
			return floatValue(to, float64(v.i))
		case KindUnsignedInt:
			return floatValue(to, float64(v.u))
		default:
			return floatValue(to, v.f)
		}
	}
	// Integer destination: go through the exact rational form, truncate
	// toward zero, and saturate if the result cannot be stored.
	r := v.Rat()
	i := new(big.Int).Quo(r.Num(), r.Denom())
	return valueFromBigInt(to, i)
}

func valueFromBigInt(rep Rep, i *big.Int) Value {
	lo, hi := repIntRange(rep)
	if i.Cmp(lo) < 0 {
		i = lo
	}
	if i.Cmp(hi) > 0 {
		i = hi
	}
	if rep.kind == KindUnsignedInt {
		return uintValue(rep, i.Uint64())
	}
	return intValue(rep, i.Int64())
}

func repIntRange(rep Rep) (lo, hi *big.Int) {
	if rep.kind == KindUnsignedInt {
		lo = big.NewInt(0)
		hi = new(big.Int).Lsh(big.NewInt(1), uint(rep.bits))
		hi.Sub(hi, big.NewInt(1))
		return lo, hi
	}
	lo = new(big.Int).Lsh(big.NewInt(1), uint(rep.bits-1))
	lo.Neg(lo)
	hi = new(big.Int).Lsh(big.NewInt(1), uint(rep.bits-1))
	hi.Sub(hi, big.NewInt(1))
	return lo, hi
}

// FromRat re-expresses an exact rational in the given representation,
// rounding toward the direction that keeps the stated bound conservative:
// RoundCeil produces the smallest representable value not below the rational,
// RoundFloor the largest not above it. Results saturate at the
// representation's extremes.
func FromRat(rep Rep, r *big.Rat, mode Rounding) Value {
	if rep.IsFloat() {
		f, _ := r.Float64()
		v := floatValue(rep, f)
		// Nearest-rounding may land on the wrong side of the exact
		// rational; nudge one ulp back toward the safe side.
		switch mode {
		case RoundCeil:
			for v.Rat().Cmp(r) < 0 {
				v = floatValue(rep, nextAfter(rep, v.f, math.Inf(1)))
			}
		case RoundFloor:
			for v.Rat().Cmp(r) > 0 {
				v = floatValue(rep, nextAfter(rep, v.f, math.Inf(-1)))
			}
		}
		return clampToRange(v)
	}
	num, den := r.Num(), r.Denom()
	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() != 0 {
		if mode == RoundCeil && num.Sign() > 0 {
			q.Add(q, big.NewInt(1))
		}
		if mode == RoundFloor && num.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		}
	}
	return valueFromBigInt(rep, q)
}

// Rounding selects the conservative direction for FromRat.
type Rounding int

const (
	// RoundCeil rounds up to the nearest representable value.
	RoundCeil Rounding = iota
	// RoundFloor rounds down to the nearest representable value.
	RoundFloor
)

func nextAfter(rep Rep, f, toward float64) float64 {
	if rep.bits == 32 {
		return float64(math.Nextafter32(float32(f), float32(toward)))
	}
	return math.Nextafter(f, toward)
}

func clampToRange(v Value) Value {
	lo, hi := v.rep.Lowest(), v.rep.Highest()
	if v.Cmp(lo) < 0 {
		return lo
	}
	if v.Cmp(hi) > 0 {
		return hi
	}
	return v
}
