package domain

import (
	"fmt"
	"math/big"

	"github.com/felixgeelhaar/convrisk/internal/numeric"
)

// Apply executes an operation on a concrete value with the native semantics
// of its reps: casts convert, integer scales truncate toward zero, float
// scales round. Overflow is the caller's problem; run the value through
// WouldOverflow first.
func Apply(op Operation, x numeric.Value) (numeric.Value, error) {
	if x.Rep() != op.Input() {
		return numeric.Value{}, fmt.Errorf("%w: have %s, want %s", ErrRepMismatch, x.Rep(), op.Input())
	}

	switch o := op.(type) {
	case Cast:
		return x.Convert(o.Output()), nil

	case Scale:
		return applyScale(o, x)

	case Sequence:
		v := x
		for _, step := range o.ops {
			var err error
			if v, err = Apply(step, v); err != nil {
				return numeric.Value{}, err
			}
		}
		return v, nil

	default:
		return numeric.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}
}

func applyScale(o Scale, x numeric.Value) (numeric.Value, error) {
	rep, m := o.Input(), o.Factor()

	if rep.IsFloat() {
		v, err := m.ValueIn(rep)
		if err != nil {
			return numeric.Value{}, fmt.Errorf("applying %s: %w", o, err)
		}
		return x.Mul(v), nil
	}

	if !m.IsRational() {
		return numeric.Value{}, fmt.Errorf("%w: %s", ErrIrrationalFactor, o)
	}

	// Exact product, then the native truncation toward zero.
	exact := new(big.Rat).Mul(x.Rat(), m.Rat())
	mode := numeric.RoundFloor
	if exact.Sign() < 0 {
		mode = numeric.RoundCeil
	}
	return numeric.FromRat(rep, exact, mode), nil
}

// ApplyConversion runs a planned conversion end to end.
func ApplyConversion(c Conversion, x numeric.Value) (numeric.Value, error) {
	return Apply(c.Sequence(), x)
}
