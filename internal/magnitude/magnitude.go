// Package magnitude implements exact symbolic scale factors for unit
// conversions: arbitrary-precision rationals multiplied by tagged irrational
// factors such as pi and square roots. A magnitude is never zero, and every
// operation on it is exact; the only lossy step is asking for its value in a
// concrete numeric representation, which has a recognized failure mode.
package magnitude

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/felixgeelhaar/convrisk/internal/numeric"
)

// ErrCannotFit is returned by ValueIn when the exact value of the magnitude
// cannot be represented in the requested storage: it is out of range, it is a
// non-integer requested in an integer representation, or it is irrational.
var ErrCannotFit = errors.New("magnitude cannot be represented in requested storage")

// ErrZeroMagnitude rejects constructions that would produce a zero factor.
var ErrZeroMagnitude = errors.New("magnitude must be nonzero")

// basePi is the map key reserved for the transcendental factor pi. All other
// keys are integer radicands greater than one.
const basePi int64 = -1

// Magnitude is an exact, nonzero scale factor. It is immutable; all
// operations return new values.
type Magnitude struct {
	rat *big.Rat
	// irr maps a base to its (non-integer, or pi's nonzero) exponent.
	irr map[int64]*big.Rat
}

// One is the identity magnitude.
func One() Magnitude { return Magnitude{rat: big.NewRat(1, 1)} }

// FromInt builds an integer magnitude. n must be nonzero; integer literals in
// conversion definitions are validated before reaching this constructor, so a
// zero here is a programming error.
func FromInt(n int64) Magnitude {
	if n == 0 {
		panic("magnitude: zero factor")
	}
	return Magnitude{rat: new(big.Rat).SetInt64(n)}
}

// NewRatio builds the exact rational magnitude num/den.
func NewRatio(num, den int64) (Magnitude, error) {
	if den == 0 {
		return Magnitude{}, errors.New("magnitude ratio has zero denominator")
	}
	if num == 0 {
		return Magnitude{}, ErrZeroMagnitude
	}
	return Magnitude{rat: big.NewRat(num, den)}, nil
}

// FromRat builds a magnitude from an exact rational.
func FromRat(r *big.Rat) (Magnitude, error) {
	if r.Sign() == 0 {
		return Magnitude{}, ErrZeroMagnitude
	}
	return Magnitude{rat: new(big.Rat).Set(r)}, nil
}

// Pi returns the transcendental magnitude pi.
func Pi() Magnitude {
	return Magnitude{
		rat: big.NewRat(1, 1),
		irr: map[int64]*big.Rat{basePi: big.NewRat(1, 1)},
	}
}

// SqrtInt returns the exact square root of a positive integer. Perfect
// squares fold into the rational part.
func SqrtInt(n int64) (Magnitude, error) {
	if n <= 0 {
		return Magnitude{}, fmt.Errorf("square root of non-positive integer %d", n)
	}
	root := int64(math.Sqrt(float64(n)))
	for root*root > n {
		root--
	}
	for (root+1)*(root+1) <= n {
		root++
	}
	if root*root == n {
		return FromInt(root), nil
	}
	// Pull perfect-square factors out of the radicand.
	coef := int64(1)
	rad := n
	for f := int64(2); f*f <= rad; f++ {
		for rad%(f*f) == 0 {
			rad /= f * f
			coef *= f
		}
	}
	return Magnitude{
		rat: new(big.Rat).SetInt64(coef),
		irr: map[int64]*big.Rat{rad: big.NewRat(1, 2)},
	}, nil
}

// IsRational reports whether the magnitude carries no irrational factor.
func (m Magnitude) IsRational() bool { return len(m.irr) == 0 }

// IsInteger reports whether the magnitude is an exact integer.
func (m Magnitude) IsInteger() bool { return m.IsRational() && m.rat.IsInt() }

// IsPositive reports the sign of the magnitude. Irrational bases are all
// positive, so the sign is carried entirely by the rational part.
func (m Magnitude) IsPositive() bool { return m.rat.Sign() > 0 }

// IsOne reports whether the magnitude is exactly one.
func (m Magnitude) IsOne() bool {
	return m.IsRational() && m.rat.Cmp(big.NewRat(1, 1)) == 0
}

// Abs returns the magnitude with a positive sign.
func (m Magnitude) Abs() Magnitude {
	out := m.clone()
	out.rat.Abs(out.rat)
	return out
}

// Inverse returns the exact reciprocal.
func (m Magnitude) Inverse() Magnitude {
	out := Magnitude{rat: new(big.Rat).Inv(m.rat)}
	if len(m.irr) > 0 {
		out.irr = make(map[int64]*big.Rat, len(m.irr))
		for base, exp := range m.irr {
			out.irr[base] = new(big.Rat).Neg(exp)
		}
	}
	return out
}

// Mul returns the exact product of two magnitudes.
func (m Magnitude) Mul(other Magnitude) Magnitude {
	out := Magnitude{rat: new(big.Rat).Mul(m.rat, other.rat)}
	merged := make(map[int64]*big.Rat)
	for base, exp := range m.irr {
		merged[base] = new(big.Rat).Set(exp)
	}
	for base, exp := range other.irr {
		if have, ok := merged[base]; ok {
			have.Add(have, exp)
		} else {
			merged[base] = new(big.Rat).Set(exp)
		}
	}
	for base, exp := range merged {
		if exp.Sign() == 0 {
			delete(merged, base)
			continue
		}
		// Integer powers of integer bases fold into the rational part;
		// pi stays irrational at every nonzero exponent.
		if base != basePi && exp.IsInt() {
			p := new(big.Int).Exp(big.NewInt(base), new(big.Int).Abs(exp.Num()), nil)
			if exp.Sign() > 0 {
				out.rat.Mul(out.rat, new(big.Rat).SetInt(p))
			} else {
				out.rat.Mul(out.rat, new(big.Rat).SetFrac(big.NewInt(1), p))
			}
			delete(merged, base)
		}
	}
	if len(merged) > 0 {
		out.irr = merged
	}
	return out
}

// Num returns the numerator of a rational magnitude. The second result is
// false when the magnitude is irrational.
func (m Magnitude) Num() (*big.Int, bool) {
	if !m.IsRational() {
		return nil, false
	}
	return new(big.Int).Set(m.rat.Num()), true
}

// Denom returns the denominator of a rational magnitude. The second result is
// false when the magnitude is irrational.
func (m Magnitude) Denom() (*big.Int, bool) {
	if !m.IsRational() {
		return nil, false
	}
	return new(big.Int).Set(m.rat.Denom()), true
}

// Rat returns the rational part. Exact only when IsRational.
func (m Magnitude) Rat() *big.Rat { return new(big.Rat).Set(m.rat) }

// Equal reports exact equality of two magnitudes.
func (m Magnitude) Equal(other Magnitude) bool {
	if m.rat.Cmp(other.rat) != 0 || len(m.irr) != len(other.irr) {
		return false
	}
	for base, exp := range m.irr {
		have, ok := other.irr[base]
		if !ok || have.Cmp(exp) != 0 {
			return false
		}
	}
	return true
}

// AbsCmpOne compares |m| against one: -1, 0, or +1. Exact for rationals;
// irrational magnitudes are compared through a float64 approximation, which
// is ample for the factor sizes unit systems use.
func (m Magnitude) AbsCmpOne() int {
	if m.IsRational() {
		return new(big.Rat).Abs(m.rat).Cmp(big.NewRat(1, 1))
	}
	a := math.Abs(m.approx())
	switch {
	case a < 1:
		return -1
	case a > 1:
		return 1
	}
	return 0
}

// approx returns a float64 approximation of the exact value.
func (m Magnitude) approx() float64 {
	f, _ := m.rat.Float64()
	for base, exp := range m.irr {
		e, _ := exp.Float64()
		if base == basePi {
			f *= math.Pow(math.Pi, e)
		} else {
			f *= math.Pow(float64(base), e)
		}
	}
	return f
}

// String renders the magnitude in the textual form Parse accepts.
func (m Magnitude) String() string {
	var parts []string
	if len(m.irr) == 0 || m.rat.Cmp(big.NewRat(1, 1)) != 0 {
		parts = append(parts, m.rat.RatString())
	}
	bases := make([]int64, 0, len(m.irr))
	for base := range m.irr {
		bases = append(bases, base)
	}
	sort.Slice(bases, func(i, j int) bool { return bases[i] < bases[j] })
	for _, base := range bases {
		exp := m.irr[base]
		name := fmt.Sprintf("sqrt(%d)", base)
		if base == basePi {
			name = "pi"
		}
		switch {
		case exp.Cmp(big.NewRat(1, 1)) == 0 || (base != basePi && exp.Cmp(big.NewRat(1, 2)) == 0):
			parts = append(parts, name)
		case exp.Cmp(big.NewRat(-1, 1)) == 0 || (base != basePi && exp.Cmp(big.NewRat(-1, 2)) == 0):
			parts = append(parts, name+"^-1")
		default:
			parts = append(parts, fmt.Sprintf("%s^(%s)", name, exp.RatString()))
		}
	}
	return strings.Join(parts, "*")
}

// Key returns a canonical identity string suitable for memoization maps.
func (m Magnitude) Key() string { return m.String() }

func (m Magnitude) clone() Magnitude {
	out := Magnitude{rat: new(big.Rat).Set(m.rat)}
	if len(m.irr) > 0 {
		out.irr = make(map[int64]*big.Rat, len(m.irr))
		for base, exp := range m.irr {
			out.irr[base] = new(big.Rat).Set(exp)
		}
	}
	return out
}

// ValueIn returns the exact value of the magnitude expressed in the given
// representation. Integer representations require an exact in-range integer;
// float representations receive the nearest representable approximation.
// Anything else fails with ErrCannotFit.
func (m Magnitude) ValueIn(rep numeric.Rep) (numeric.Value, error) {
	if rep.IsFloat() {
		var f float64
		if m.IsRational() {
			f, _ = m.rat.Float64()
		} else {
			f = m.approx()
		}
		v, err := numeric.FromFloat64(rep, f)
		if err != nil {
			return numeric.Value{}, fmt.Errorf("%w: %s in %s", ErrCannotFit, m, rep)
		}
		if cmp := v.Cmp(rep.Highest()); cmp > 0 {
			return numeric.Value{}, fmt.Errorf("%w: %s in %s", ErrCannotFit, m, rep)
		}
		if cmp := v.Cmp(rep.Lowest()); cmp < 0 {
			return numeric.Value{}, fmt.Errorf("%w: %s in %s", ErrCannotFit, m, rep)
		}
		return v, nil
	}
	if !m.IsRational() || !m.rat.IsInt() {
		return numeric.Value{}, fmt.Errorf("%w: %s in %s", ErrCannotFit, m, rep)
	}
	if m.rat.Cmp(rep.Lowest().Rat()) < 0 || m.rat.Cmp(rep.Highest().Rat()) > 0 {
		return numeric.Value{}, fmt.Errorf("%w: %s in %s", ErrCannotFit, m, rep)
	}
	return numeric.FromRat(rep, m.rat, numeric.RoundFloor), nil
}
