// Package domain implements the conversion-risk analysis engine: the
// abstract operation model, the overflow boundary analyzer, and the
// truncation risk classifier. Everything here is pure and deterministic;
// results depend only on the declared inputs.
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/convrisk/internal/magnitude"
	"github.com/felixgeelhaar/convrisk/internal/numeric"
)

// Operation is one step of a conversion. Each operation declares the
// representation of the value it consumes and the one it produces.
type Operation interface {
	Input() numeric.Rep
	Output() numeric.Rep
	String() string
}

// Cast reinterprets a value of one representation as another using the host
// language's native numeric conversion. The model itself does not define
// safety; the analyzers do.
type Cast struct {
	from numeric.Rep
	to   numeric.Rep
}

// NewCast builds a cast operation.
func NewCast(from, to numeric.Rep) Cast {
	return Cast{from: from, to: to}
}

// Input returns the source representation.
func (c Cast) Input() numeric.Rep { return c.from }

// Output returns the destination representation.
func (c Cast) Output() numeric.Rep { return c.to }

func (c Cast) String() string {
	return fmt.Sprintf("cast(%s->%s)", c.from, c.to)
}

// Scale multiplies a value by an exact magnitude, staying in the same
// representation. Exactness when the factor is an integer or the reciprocal
// of an integer is a hard requirement the analyzers preserve.
type Scale struct {
	rep    numeric.Rep
	factor magnitude.Magnitude
}

// NewScale builds a scale operation.
func NewScale(rep numeric.Rep, factor magnitude.Magnitude) Scale {
	return Scale{rep: rep, factor: factor}
}

// Input returns the representation the scale operates in.
func (s Scale) Input() numeric.Rep { return s.rep }

// Output returns the same representation; scaling never changes storage.
func (s Scale) Output() numeric.Rep { return s.rep }

// Factor returns the exact scale factor.
func (s Scale) Factor() magnitude.Magnitude { return s.factor }

func (s Scale) String() string {
	return fmt.Sprintf("scale(%s by %s)", s.rep, s.factor)
}

// ErrSequenceMismatch reports an adjacency violation between sequence steps.
// This is a construction-time defect, never a runtime one.
var ErrSequenceMismatch = errors.New("sequence step output does not match next input")

// Sequence is an ordered list of operations whose adjacent representations
// line up.
type Sequence struct {
	ops []Operation
}

// NewSequence validates the adjacency invariant and builds a sequence.
func NewSequence(ops ...Operation) (Sequence, error) {
	if len(ops) == 0 {
		return Sequence{}, errors.New("sequence requires at least one operation")
	}
	for i := 0; i < len(ops)-1; i++ {
		if ops[i].Output() != ops[i+1].Input() {
			return Sequence{}, fmt.Errorf("%w: step %d yields %s, step %d expects %s",
				ErrSequenceMismatch, i, ops[i].Output(), i+1, ops[i+1].Input())
		}
	}
	out := make([]Operation, len(ops))
	copy(out, ops)
	return Sequence{ops: out}, nil
}

// Ops returns the steps in order.
func (s Sequence) Ops() []Operation {
	out := make([]Operation, len(s.ops))
	copy(out, s.ops)
	return out
}

// Len returns the number of steps.
func (s Sequence) Len() int { return len(s.ops) }

// Input returns the representation consumed by the first step.
func (s Sequence) Input() numeric.Rep { return s.ops[0].Input() }

// Output returns the representation produced by the last step.
func (s Sequence) Output() numeric.Rep { return s.ops[len(s.ops)-1].Output() }

func (s Sequence) String() string {
	parts := make([]string, len(s.ops))
	for i, op := range s.ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, " ; ")
}

// prepend returns a sequence beginning with op and continuing with tail.
// When tail is itself a sequence its steps are spliced in flat.
func prepend(op Operation, tail Operation) Operation {
	if seq, ok := tail.(Sequence); ok {
		ops := append([]Operation{op}, seq.ops...)
		return Sequence{ops: ops}
	}
	return Sequence{ops: []Operation{op, tail}}
}
