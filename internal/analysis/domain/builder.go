package domain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/felixgeelhaar/convrisk/internal/magnitude"
	"github.com/felixgeelhaar/convrisk/internal/numeric"
)

// ErrIrrationalFactor rejects factors that have no exact meaning in an
// integer representation.
var ErrIrrationalFactor = errors.New("irrational factor cannot be applied in an integer representation")

// Conversion is a planned change of representation and scale: a validated
// operation sequence from the old rep to the new one, with the factor applied
// in the promoted rep the way ordinary arithmetic would.
type Conversion struct {
	from   numeric.Rep
	to     numeric.Rep
	factor magnitude.Magnitude
	seq    Sequence
}

// NewConversion plans the conversion from one rep to another with an exact
// scale factor. The factor is applied in the promoted common rep; non-trivial
// rational factors on integer reps split into a multiply followed by a
// divide, so that each step stays exact and analyzable on its own.
func NewConversion(from, to numeric.Rep, factor magnitude.Magnitude) (Conversion, error) {
	if !from.IsValid() {
		return Conversion{}, fmt.Errorf("%w: source %q", numeric.ErrUnknownRep, from)
	}
	if !to.IsValid() {
		return Conversion{}, fmt.Errorf("%w: destination %q", numeric.ErrUnknownRep, to)
	}

	promoted := numeric.Promote(from, to)
	if promoted.IsInteger() && !factor.IsRational() {
		return Conversion{}, fmt.Errorf("%w: %s in %s", ErrIrrationalFactor, factor, promoted)
	}

	var ops []Operation
	if from != promoted {
		ops = append(ops, NewCast(from, promoted))
	}
	scales, err := factorSteps(promoted, factor)
	if err != nil {
		return Conversion{}, err
	}
	ops = append(ops, scales...)
	if promoted != to {
		ops = append(ops, NewCast(promoted, to))
	}
	if len(ops) == 0 {
		// Same rep, factor one: the conversion is the identity cast.
		ops = append(ops, NewCast(from, to))
	}

	seq, err := NewSequence(ops...)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{from: from, to: to, factor: factor, seq: seq}, nil
}

// factorSteps chooses how the factor is applied in the working rep.
func factorSteps(rep numeric.Rep, factor magnitude.Magnitude) ([]Operation, error) {
	if factor.IsOne() {
		return nil, nil
	}
	if rep.IsFloat() || factor.IsInteger() {
		return []Operation{NewScale(rep, factor)}, nil
	}

	num, _ := factor.Num()
	den, _ := factor.Denom()
	one := big.NewInt(1)
	if new(big.Int).Abs(num).Cmp(one) == 0 || den.Cmp(one) == 0 {
		// Pure integer or pure reciprocal: a single step is already exact.
		return []Operation{NewScale(rep, factor)}, nil
	}

	mul, err := magnitude.FromRat(new(big.Rat).SetInt(num))
	if err != nil {
		return nil, err
	}
	div, err := magnitude.FromRat(new(big.Rat).SetFrac(one, den))
	if err != nil {
		return nil, err
	}
	return []Operation{NewScale(rep, mul), NewScale(rep, div)}, nil
}

// From returns the source rep.
func (c Conversion) From() numeric.Rep { return c.from }

// To returns the destination rep.
func (c Conversion) To() numeric.Rep { return c.to }

// Factor returns the exact scale factor.
func (c Conversion) Factor() magnitude.Magnitude { return c.factor }

// Sequence returns the planned operation sequence.
func (c Conversion) Sequence() Sequence { return c.seq }

func (c Conversion) String() string {
	return fmt.Sprintf("%s -> %s by %s", c.from, c.to, c.factor)
}
