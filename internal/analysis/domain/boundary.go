package domain

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/convrisk/internal/magnitude"
	"github.com/felixgeelhaar/convrisk/internal/numeric"
)

// ErrUnsupportedOperation reports an operation kind the boundary analyzer has
// no case analysis for.
var ErrUnsupportedOperation = errors.New("overflow boundary not implemented for operation")

// ErrRepMismatch reports a value presented in a rep other than the one an
// operation consumes.
var ErrRepMismatch = errors.New("value representation does not match operation input")

// MinGood computes the smallest input value that does not overflow anywhere
// in the operation. The result is always non-positive. When it coincides with
// the natural lowest value of the input rep, the bound reports CannotOverflow.
func MinGood(op Operation) (Bound, error) {
	v, err := MinGoodWithin(op, NoLimits())
	if err != nil {
		return Bound{}, err
	}
	return Bound{value: v, cannotOverflow: v.Equal(op.Input().Lowest())}, nil
}

// MaxGood computes the largest input value that does not overflow anywhere in
// the operation. The result is always non-negative. When it coincides with
// the natural highest value of the input rep, the bound reports
// CannotOverflow.
func MaxGood(op Operation) (Bound, error) {
	v, err := MaxGoodWithin(op, NoLimits())
	if err != nil {
		return Bound{}, err
	}
	return Bound{value: v, cannotOverflow: v.Equal(op.Input().Highest())}, nil
}

// CanOverflowBelow reports whether any input value overflows below.
func CanOverflowBelow(op Operation) (bool, error) {
	b, err := MinGood(op)
	if err != nil {
		return false, err
	}
	return !b.CannotOverflow(), nil
}

// CanOverflowAbove reports whether any input value overflows above.
func CanOverflowAbove(op Operation) (bool, error) {
	b, err := MaxGood(op)
	if err != nil {
		return false, err
	}
	return !b.CannotOverflow(), nil
}

// WouldOverflow checks one concrete input against both boundaries. Directions
// that cannot overflow are not compared at all.
func WouldOverflow(op Operation, x numeric.Value) (bool, error) {
	if x.Rep() != op.Input() {
		return false, fmt.Errorf("%w: have %s, want %s", ErrRepMismatch, x.Rep(), op.Input())
	}
	lo, err := MinGood(op)
	if err != nil {
		return false, err
	}
	if !lo.CannotOverflow() && x.Cmp(lo.Value()) < 0 {
		return true, nil
	}
	hi, err := MaxGood(op)
	if err != nil {
		return false, err
	}
	if !hi.CannotOverflow() && x.Cmp(hi.Value()) > 0 {
		return true, nil
	}
	return false, nil
}

// MinGoodWithin computes the minimum non-overflowing input when the
// operation's output is additionally constrained by lim. This is the
// recursion sequences use to propagate bounds back to front.
func MinGoodWithin(op Operation, lim Limits) (numeric.Value, error) {
	switch o := op.(type) {
	case Cast:
		return castMinGood(o.Input(), o.Output(), lim), nil
	case Scale:
		return scaleMinGood(o.Input(), o.Factor(), lim), nil
	case Sequence:
		return sequenceBound(o, lim, MinGoodWithin)
	default:
		return numeric.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}
}

// MaxGoodWithin is the upper-bound counterpart of MinGoodWithin.
func MaxGoodWithin(op Operation, lim Limits) (numeric.Value, error) {
	switch o := op.(type) {
	case Cast:
		return castMaxGood(o.Input(), o.Output(), lim)
	case Scale:
		return scaleMaxGood(o.Input(), o.Factor(), lim), nil
	case Sequence:
		return sequenceBound(o, lim, MaxGoodWithin)
	default:
		return numeric.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}
}

// sequenceBound bounds the first step against limits synthesized from the
// rest of the sequence: the tail's own good range, expressed in the rep that
// joins the first step to the second, becomes the head's output limits.
func sequenceBound(seq Sequence, lim Limits, bound func(Operation, Limits) (numeric.Value, error)) (numeric.Value, error) {
	if seq.Len() == 1 {
		return bound(seq.ops[0], lim)
	}
	var tail Operation
	if len(seq.ops) == 2 {
		tail = seq.ops[1]
	} else {
		tail = Sequence{ops: seq.ops[1:]}
	}
	lo, err := MinGoodWithin(tail, lim)
	if err != nil {
		return numeric.Value{}, err
	}
	hi, err := MaxGoodWithin(tail, lim)
	if err != nil {
		return numeric.Value{}, err
	}
	return bound(seq.ops[0], Limits{Lower: &lo, Upper: &hi})
}

//
// Cast boundaries.
//
// T is the source rep, U the destination, lim constrains U. Each branch
// mirrors one clause of the kind/width case analysis.
//

func castMinGood(t, u numeric.Rep, lim Limits) numeric.Value {
	switch {
	case t.IsInteger() && !t.IsSigned():
		// Unsigned sources bottom out at zero, which fits everywhere
		// unless the destination demands more.
		return sourceLowestUnlessDestLimitIsHigher(t, u, lim)
	case t.IsInteger() && u.IsInteger() && !u.IsSigned():
		// Signed to unsigned: negatives always overflow below.
		return t.Zero()
	case t.IsInteger():
		// Signed to signed or to float: widening keeps the source
		// extreme, narrowing re-expresses the destination's.
		if u.IsFloat() || t.Bits() <= u.Bits() {
			return sourceLowestUnlessDestLimitIsHigher(t, u, lim)
		}
		return lowestInDestination(t, u, lim)
	case u.IsFloat():
		if t.Bits() <= u.Bits() {
			return sourceLowestUnlessDestLimitIsHigher(t, u, lim)
		}
		return lowestInDestination(t, u, lim)
	default:
		// Float to int.
		return lowestInDestination(t, u, lim)
	}
}

func castMaxGood(t, u numeric.Rep, lim Limits) (numeric.Value, error) {
	switch {
	case t.IsInteger() && u.IsInteger():
		if t.Highest().Cmp(u.Highest()) <= 0 {
			return sourceHighestUnlessDestLimitIsLower(t, u, lim), nil
		}
		return highestInDestination(t, u, lim), nil
	case t.IsInteger():
		// Int to float: float ranges dwarf integer ones.
		return sourceHighestUnlessDestLimitIsLower(t, u, lim), nil
	case u.IsFloat():
		if t.Bits() <= u.Bits() {
			return sourceHighestUnlessDestLimitIsLower(t, u, lim), nil
		}
		return highestInDestination(t, u, lim), nil
	default:
		return maxFloatNotExceedingIntLimit(t, u, lim)
	}
}

// sourceLowestUnlessDestLimitIsHigher keeps the source rep's own lowest value
// unless the destination's lower limit sits above it, in which case that
// limit comes back expressed in the source rep.
func sourceLowestUnlessDestLimitIsHigher(t, u numeric.Rep, lim Limits) numeric.Value {
	destLimit := lim.lower(u)
	if t.Lowest().Cmp(destLimit) <= 0 {
		return numeric.FromRat(t, destLimit.Rat(), numeric.RoundCeil)
	}
	return t.Lowest()
}

// sourceHighestUnlessDestLimitIsLower is the mirror image for upper bounds.
func sourceHighestUnlessDestLimitIsLower(t, u numeric.Rep, lim Limits) numeric.Value {
	destLimit := lim.upper(u)
	if t.Highest().Cmp(destLimit) >= 0 {
		return numeric.FromRat(t, destLimit.Rat(), numeric.RoundFloor)
	}
	return t.Highest()
}

func lowestInDestination(t, u numeric.Rep, lim Limits) numeric.Value {
	return numeric.FromRat(t, lim.lower(u).Rat(), numeric.RoundCeil)
}

func highestInDestination(t, u numeric.Rep, lim Limits) numeric.Value {
	return numeric.FromRat(t, lim.upper(u).Rat(), numeric.RoundFloor)
}

// maxFloatNotExceedingIntLimit finds the largest value of float rep t that
// casts into integer rep u without exceeding lim. Integer maxima are rarely
// representable in floats: nearest-rounding the max up by one ulp would admit
// values that overflow, so the bound is explored through the float's own
// grid. All mantissa bits set gives the top of the contiguous integer range;
// above it, only doublings that stay strictly under the integer max are safe.
func maxFloatNotExceedingIntLimit(t, u numeric.Rep, lim Limits) (numeric.Value, error) {
	limit := intHighestInFloat(t, u)
	mm := maxMantissa(t)

	fl := limit
	if limit > mm {
		x := mm
		for x+x < limit {
			x = roundToRep(t, x+x)
		}
		fl = x
	}

	if lim.Upper != nil {
		explicit := numeric.FromRat(t, lim.Upper.Rat(), numeric.RoundFloor).Float64()
		if explicit < fl {
			fl = explicit
		}
	}
	return numeric.FromFloat64(t, fl)
}

// maxMantissa is the float value with every mantissa bit set: the last value
// x for which x+1 is still exactly representable.
func maxMantissa(t numeric.Rep) float64 {
	x, last := 1.0, 1.0
	for roundToRep(t, x+1) > x {
		last = x
		x = roundToRep(t, x+roundToRep(t, x+1))
	}
	return last
}

// intHighestInFloat casts integer rep u's highest value into float rep t with
// the native nearest rounding.
func intHighestInFloat(t, u numeric.Rep) float64 {
	hi := u.Highest()
	var f float64
	if u.IsSigned() {
		f = float64(hi.Int64())
	} else {
		f = float64(hi.Uint64())
	}
	return roundToRep(t, f)
}

func roundToRep(t numeric.Rep, f float64) float64 {
	if t.Bits() == 32 {
		return float64(float32(f))
	}
	return f
}

//
// Scale boundaries.
//
// T is the rep the scale operates in, m the exact factor, lim constrains the
// (identical) output rep. A factor is "workable" in T when T is a float, or
// when the factor is an integer or the reciprocal of one; any other factor on
// an integer rep leaves zero as the only value that survives exactly.
//

func scaleMinGood(t numeric.Rep, m magnitude.Magnitude, lim Limits) numeric.Value {
	switch {
	case !t.IsSigned():
		// Unsigned min is zero, and zero scales to zero.
		return t.Zero()
	case t.IsFloat() || m.IsInteger() || m.Inverse().IsInteger():
		if m.AbsCmpOne() >= 0 {
			return lowestOfLimitsDividedByFactor(t, m, lim)
		}
		return clampLowestOfLimitsTimesInverseFactor(t, m, lim)
	default:
		return t.Zero()
	}
}

func scaleMaxGood(t numeric.Rep, m magnitude.Magnitude, lim Limits) numeric.Value {
	switch {
	case !t.IsSigned() && !m.IsPositive():
		// A negative factor sends every positive unsigned value out of
		// range; only zero survives.
		return t.Zero()
	case m.IsInteger():
		return highestOfLimitsDividedByFactor(t, m, lim)
	case m.Inverse().IsInteger():
		return clampHighestOfLimitsTimesInverseFactor(t, m, lim)
	case t.IsFloat():
		if m.AbsCmpOne() >= 0 {
			return highestOfLimitsDividedByFactor(t, m, lim)
		}
		return clampHighestOfLimitsTimesInverseFactor(t, m, lim)
	default:
		return t.Zero()
	}
}

// divideByFactor divides a limit by the factor's value in t. A factor too
// large to represent in t acts as division by infinity and yields zero.
func divideByFactor(limit numeric.Value, t numeric.Rep, m magnitude.Magnitude) numeric.Value {
	v, err := m.ValueIn(t)
	if err != nil {
		return t.Zero()
	}
	return limit.Div(v)
}

// lowestOfLimitsDividedByFactor handles factors of absolute value at least
// one: dividing shrinks, so no overflow is possible in the division itself.
// A negative factor swaps which limit is relevant.
func lowestOfLimitsDividedByFactor(t numeric.Rep, m magnitude.Magnitude, lim Limits) numeric.Value {
	relevant := lim.lower(t)
	if !m.IsPositive() {
		relevant = lim.upper(t)
	}
	return divideByFactor(relevant, t, m)
}

func highestOfLimitsDividedByFactor(t numeric.Rep, m magnitude.Magnitude, lim Limits) numeric.Value {
	relevant := lim.upper(t)
	if !m.IsPositive() {
		relevant = lim.lower(t)
	}

	// Signed minima are one step more negative than maxima are positive,
	// which breaks the plain division in two cases.
	//
	// A factor equal to the signed minimum takes 1 as the bound: the only
	// nonzero input whose product stays representable in t. The limits
	// handed down are not consulted on this path, so a downstream limit
	// that excludes the minimum itself sees the bound overstated by one.
	if v, err := m.ValueIn(t); err == nil && v.Equal(t.Lowest()) {
		return t.One()
	}
	if m.Equal(magnitude.FromInt(-1)) && lim.lower(t).Equal(t.Lowest()) {
		// Unsigned reps never reach this branch.
		return t.Highest()
	}

	return divideByFactor(relevant, t, m)
}

// clampLowestOfLimitsTimesInverseFactor handles factors of absolute value
// under one: the inverse grows values, so the result is backed out from the
// rep's own bounds and clamped there when the limit would exceed them.
func clampLowestOfLimitsTimesInverseFactor(t numeric.Rep, m magnitude.Magnitude, lim Limits) numeric.Value {
	relevant := lim.lower(t)
	if !m.IsPositive() {
		relevant = lim.upper(t).Neg()
	}
	absDivisor, err := m.Abs().Inverse().ValueIn(t)
	if err != nil {
		return t.Lowest()
	}

	var bound numeric.Value
	if m.IsPositive() {
		bound = t.Lowest().Div(absDivisor)
	} else {
		bound = t.Highest().Div(absDivisor).Neg()
	}
	if bound.Cmp(relevant) >= 0 {
		return t.Lowest()
	}
	return relevant.Mul(absDivisor)
}

func clampHighestOfLimitsTimesInverseFactor(t numeric.Rep, m magnitude.Magnitude, lim Limits) numeric.Value {
	relevant := lim.upper(t)
	if !m.IsPositive() {
		relevant = lim.negativeLower(t)
	}
	absDivisor, err := m.Abs().Inverse().ValueIn(t)
	if err != nil {
		return t.Highest()
	}

	var bound numeric.Value
	if m.IsPositive() {
		bound = t.Highest().Div(absDivisor)
	} else {
		bound = t.Lowest().Div(absDivisor).Neg()
	}
	if bound.Cmp(relevant) <= 0 {
		return t.Highest()
	}
	return relevant.Mul(absDivisor)
}
