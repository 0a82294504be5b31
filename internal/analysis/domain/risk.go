package domain

import (
	"fmt"
	"math/big"

	"github.com/felixgeelhaar/convrisk/internal/numeric"
)

// TruncationRisk describes which input values of an operation lose
// information. Every risk is tagged with the representation of the values it
// speaks about.
type TruncationRisk interface {
	Rep() numeric.Rep
	// Truncates reports whether the concrete value falls in the risky
	// set. CannotAssessRisk answers true for everything except zero.
	Truncates(x numeric.Value) bool
	String() string

	isTruncationRisk()
}

// NoTruncationRisk: every value converts exactly.
type NoTruncationRisk struct{ rep numeric.Rep }

// NewNoTruncationRisk tags a clean bill of health with a rep.
func NewNoTruncationRisk(rep numeric.Rep) NoTruncationRisk { return NoTruncationRisk{rep: rep} }

func (r NoTruncationRisk) Rep() numeric.Rep { return r.rep }
func (r NoTruncationRisk) Truncates(numeric.Value) bool { return false }
func (r NoTruncationRisk) String() string { return "no truncation risk" }
func (NoTruncationRisk) isTruncationRisk() {}

// NonIntegerValuesRisk: values with a fractional part truncate.
type NonIntegerValuesRisk struct{ rep numeric.Rep }

// NewNonIntegerValuesRisk tags the fractional-part risk with a rep.
func NewNonIntegerValuesRisk(rep numeric.Rep) NonIntegerValuesRisk {
	return NonIntegerValuesRisk{rep: rep}
}

func (r NonIntegerValuesRisk) Rep() numeric.Rep { return r.rep }

func (r NonIntegerValuesRisk) Truncates(x numeric.Value) bool {
	return !x.Rat().IsInt()
}

func (r NonIntegerValuesRisk) String() string { return "non-integer values truncate" }
func (NonIntegerValuesRisk) isTruncationRisk() {}

// AllNonzeroValuesRisk: only zero converts exactly.
type AllNonzeroValuesRisk struct{ rep numeric.Rep }

// NewAllNonzeroValuesRisk tags the all-nonzero risk with a rep.
func NewAllNonzeroValuesRisk(rep numeric.Rep) AllNonzeroValuesRisk {
	return AllNonzeroValuesRisk{rep: rep}
}

func (r AllNonzeroValuesRisk) Rep() numeric.Rep { return r.rep }
func (r AllNonzeroValuesRisk) Truncates(x numeric.Value) bool { return !x.IsZero() }
func (r AllNonzeroValuesRisk) String() string { return "all nonzero values truncate" }
func (AllNonzeroValuesRisk) isTruncationRisk() {}

// NotDivisibleByRisk: values that are not exact multiples of the divisor
// truncate. The divisor is always at least 2.
type NotDivisibleByRisk struct {
	rep     numeric.Rep
	divisor *big.Int
}

// NewNotDivisibleByRisk tags a divisibility requirement with a rep. The
// divisor must exceed 1; a divisor of 1 is no risk at all, which is the
// caller's case to represent.
func NewNotDivisibleByRisk(rep numeric.Rep, divisor *big.Int) NotDivisibleByRisk {
	if divisor.Cmp(big.NewInt(2)) < 0 {
		panic("divisibility risk requires a divisor of at least 2")
	}
	return NotDivisibleByRisk{rep: rep, divisor: new(big.Int).Set(divisor)}
}

func (r NotDivisibleByRisk) Rep() numeric.Rep { return r.rep }

// Divisor returns the required factor.
func (r NotDivisibleByRisk) Divisor() *big.Int { return new(big.Int).Set(r.divisor) }

func (r NotDivisibleByRisk) Truncates(x numeric.Value) bool {
	q := new(big.Rat).Quo(x.Rat(), new(big.Rat).SetInt(r.divisor))
	return !q.IsInt()
}

func (r NotDivisibleByRisk) String() string {
	return fmt.Sprintf("values not divisible by %s truncate", r.divisor)
}
func (NotDivisibleByRisk) isTruncationRisk() {}

// CannotAssessRisk: the classifier has no model for part of the operation, so
// no value other than zero can be vouched for. The residual records the
// unmodeled suffix.
type CannotAssessRisk struct {
	rep      numeric.Rep
	residual Operation
}

// NewCannotAssessRisk records an unassessable operation.
func NewCannotAssessRisk(rep numeric.Rep, residual Operation) CannotAssessRisk {
	return CannotAssessRisk{rep: rep, residual: residual}
}

func (r CannotAssessRisk) Rep() numeric.Rep { return r.rep }

// Residual returns the operation suffix that defeated assessment.
func (r CannotAssessRisk) Residual() Operation { return r.residual }

func (r CannotAssessRisk) Truncates(x numeric.Value) bool { return !x.IsZero() }

func (r CannotAssessRisk) String() string {
	return fmt.Sprintf("cannot assess truncation risk for %s", r.residual)
}
func (CannotAssessRisk) isTruncationRisk() {}

// TruncationRiskFor classifies an operation. Unknown operation kinds come
// back as CannotAssessRisk rather than an error: a pessimistic answer is
// still an answer.
func TruncationRiskFor(op Operation) TruncationRisk {
	switch o := op.(type) {
	case Cast:
		if o.Input().IsFloat() && o.Output().IsInteger() {
			return NewNonIntegerValuesRisk(o.Input())
		}
		return NewNoTruncationRisk(o.Input())

	case Scale:
		return scaleRisk(o)

	case Sequence:
		return sequenceRisk(o)

	default:
		return NewCannotAssessRisk(op.Input(), op)
	}
}

func scaleRisk(o Scale) TruncationRisk {
	t, m := o.Input(), o.Factor()
	switch {
	case !m.IsRational():
		if t.IsInteger() {
			return NewAllNonzeroValuesRisk(t)
		}
		return NewNoTruncationRisk(t)
	case m.IsInteger():
		return NewNoTruncationRisk(t)
	default:
		if t.IsInteger() {
			den, _ := m.Denom()
			return NewNotDivisibleByRisk(t, den)
		}
		return NewNoTruncationRisk(t)
	}
}

// sequenceRisk folds back to front: the risk of a sequence is the risk of
// its first step joined with the tail's risk re-expressed at the first
// step's input.
func sequenceRisk(s Sequence) TruncationRisk {
	if s.Len() == 1 {
		return TruncationRiskFor(s.ops[0])
	}
	var tail Operation
	if len(s.ops) == 2 {
		tail = s.ops[1]
	} else {
		tail = Sequence{ops: s.ops[1:]}
	}
	head := s.ops[0]
	joined := unionRisk(TruncationRiskFor(head), UpdateRisk(head, TruncationRiskFor(tail)))
	return normalizeRisk(joined)
}

// UpdateRisk re-expresses a risk stated at op's output in terms of op's
// input: what must hold of the value fed into op so that the downstream
// requirement holds of the value op produces.
func UpdateRisk(op Operation, downstream TruncationRisk) TruncationRisk {
	if ca, ok := downstream.(CannotAssessRisk); ok {
		return NewCannotAssessRisk(op.Input(), prepend(op, ca.residual))
	}

	switch o := op.(type) {
	case Cast:
		return normalizeRisk(retagRisk(downstream, o.Input()))

	case Scale:
		return normalizeRisk(updateRiskThroughScale(o, downstream))

	case Sequence:
		r := downstream
		for i := len(o.ops) - 1; i >= 0; i-- {
			r = UpdateRisk(o.ops[i], r)
		}
		return r

	default:
		return NewCannotAssessRisk(op.Input(), op)
	}
}

// updateRiskThroughScale pulls a requirement on y = x * m back to x.
func updateRiskThroughScale(o Scale, downstream TruncationRisk) TruncationRisk {
	t, m := o.Input(), o.Factor()
	switch r := downstream.(type) {
	case NoTruncationRisk:
		return NewNoTruncationRisk(t)

	case AllNonzeroValuesRisk:
		// The factor is nonzero, so x is zero exactly when y is.
		return NewAllNonzeroValuesRisk(t)

	case NonIntegerValuesRisk:
		// y must be an integer, so x must be a multiple of 1/m.
		if !m.IsRational() {
			return NewAllNonzeroValuesRisk(t)
		}
		den, _ := m.Denom()
		if den.Cmp(big.NewInt(1)) > 0 {
			return NewNotDivisibleByRisk(t, den)
		}
		return NewNonIntegerValuesRisk(t)

	case NotDivisibleByRisk:
		// y must be a multiple of n; with m = p/q this needs x to be a
		// multiple of n*q / gcd(p, n*q).
		if !m.IsRational() {
			return NewAllNonzeroValuesRisk(t)
		}
		num, _ := m.Num()
		den, _ := m.Denom()
		nq := new(big.Int).Mul(r.divisor, den)
		g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), nq)
		d := new(big.Int).Quo(nq, g)
		if d.Cmp(big.NewInt(1)) <= 0 {
			return NewNoTruncationRisk(t)
		}
		return NewNotDivisibleByRisk(t, d)

	default:
		return NewCannotAssessRisk(t, o)
	}
}

// retagRisk moves a risk to a different rep without changing its shape.
func retagRisk(r TruncationRisk, rep numeric.Rep) TruncationRisk {
	switch r := r.(type) {
	case NoTruncationRisk:
		return NewNoTruncationRisk(rep)
	case NonIntegerValuesRisk:
		return NewNonIntegerValuesRisk(rep)
	case AllNonzeroValuesRisk:
		return NewAllNonzeroValuesRisk(rep)
	case NotDivisibleByRisk:
		return NewNotDivisibleByRisk(rep, r.divisor)
	case CannotAssessRisk:
		return NewCannotAssessRisk(rep, r.residual)
	default:
		return r
	}
}

// normalizeRisk discharges requirements the rep itself already guarantees:
// integer reps cannot hold non-integer values.
func normalizeRisk(r TruncationRisk) TruncationRisk {
	if ni, ok := r.(NonIntegerValuesRisk); ok && ni.rep.IsInteger() {
		return NewNoTruncationRisk(ni.rep)
	}
	return r
}

// unionRisk joins two risks over the same rep: a value is risky when either
// says so. The lattice runs NoRisk < NonInteger < NotDivisibleBy <
// AllNonzero < CannotAssess, except that two divisibility requirements join
// at their least common multiple.
func unionRisk(a, b TruncationRisk) TruncationRisk {
	if _, ok := a.(NoTruncationRisk); ok {
		return b
	}
	if _, ok := b.(NoTruncationRisk); ok {
		return a
	}
	if ca, ok := a.(CannotAssessRisk); ok {
		return ca
	}
	if cb, ok := b.(CannotAssessRisk); ok {
		return cb
	}
	if az, ok := a.(AllNonzeroValuesRisk); ok {
		return az
	}
	if bz, ok := b.(AllNonzeroValuesRisk); ok {
		return bz
	}
	da, aIsDiv := a.(NotDivisibleByRisk)
	db, bIsDiv := b.(NotDivisibleByRisk)
	switch {
	case aIsDiv && bIsDiv:
		return NewNotDivisibleByRisk(da.rep, lcm(da.divisor, db.divisor))
	case aIsDiv:
		// The other side is NonIntegerValues, whose safe set (integers)
		// contains every multiple of the divisor.
		return da
	case bIsDiv:
		return db
	default:
		return a
	}
}

func lcm(a, b *big.Int) *big.Int {
	g := new(big.Int).GCD(nil, nil, a, b)
	return new(big.Int).Quo(new(big.Int).Mul(a, b), g)
}
