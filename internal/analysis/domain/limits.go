package domain

import "github.com/felixgeelhaar/convrisk/internal/numeric"

// Limits optionally narrows the natural bounds of an operation's output
// representation. A nil field means the natural extreme of the rep. Both
// values, when present, are expressed in the output rep of the operation
// being bounded.
type Limits struct {
	Lower *numeric.Value
	Upper *numeric.Value
}

// NoLimits means the full natural range of the output rep.
func NoLimits() Limits { return Limits{} }

func (l Limits) lower(rep numeric.Rep) numeric.Value {
	if l.Lower != nil {
		return *l.Lower
	}
	return rep.Lowest()
}

func (l Limits) upper(rep numeric.Rep) numeric.Value {
	if l.Upper != nil {
		return *l.Upper
	}
	return rep.Highest()
}

// negativeLower returns the negation of the lower limit. For a signed integer
// rep whose lower limit sits at the rep's lowest value, the true negation is
// unrepresentable, so the rep's highest value stands in for it.
func (l Limits) negativeLower(rep numeric.Rep) numeric.Value {
	lo := l.lower(rep)
	if rep.IsInteger() && rep.IsSigned() && lo.Equal(rep.Lowest()) {
		return rep.Highest()
	}
	return lo.Neg()
}

// Bound is the result of a boundary query: either a concrete cutoff value in
// the operation's input rep, or the statement that no input can overflow in
// that direction.
type Bound struct {
	value          numeric.Value
	cannotOverflow bool
}

// Value returns the cutoff. When CannotOverflow is true this is the natural
// extreme of the input rep.
func (b Bound) Value() numeric.Value { return b.value }

// CannotOverflow reports that every input value is safe in this direction.
func (b Bound) CannotOverflow() bool { return b.cannotOverflow }

func (b Bound) String() string {
	if b.cannotOverflow {
		return "cannot overflow"
	}
	return b.value.String()
}
