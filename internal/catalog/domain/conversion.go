package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/convrisk/internal/magnitude"
	"github.com/felixgeelhaar/convrisk/internal/numeric"
	sharedDomain "github.com/felixgeelhaar/convrisk/internal/shared/domain"
)

var (
	// ErrConversionNotFound is returned when a conversion is not in the catalog.
	ErrConversionNotFound = errors.New("conversion not found")
	// ErrDuplicateLabel is returned when a conversion with the same label already exists.
	ErrDuplicateLabel = errors.New("conversion label already registered")
	// ErrEmptyLabel is returned when the label is blank.
	ErrEmptyLabel = errors.New("conversion label must not be empty")
)

// Conversion is a named conversion definition registered in the catalog.
// The representations and factor are stored in their textual form and
// validated at construction, so a rehydrated conversion is always analyzable.
type Conversion struct {
	sharedDomain.BaseEntity
	label  string
	from   numeric.Rep
	to     numeric.Rep
	factor magnitude.Magnitude
}

// NewConversion creates a catalog conversion, validating the representation
// names and the factor expression.
func NewConversion(label, from, to, factor string) (*Conversion, error) {
	return newConversion(sharedDomain.NewBaseEntity(), label, from, to, factor)
}

// RehydrateConversion recreates a conversion from persisted state.
func RehydrateConversion(id uuid.UUID, label, from, to, factor string, createdAt, updatedAt time.Time) (*Conversion, error) {
	base := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return newConversion(base, label, from, to, factor)
}

func newConversion(base sharedDomain.BaseEntity, label, from, to, factor string) (*Conversion, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}

	fromRep, err := numeric.ParseRep(from)
	if err != nil {
		return nil, fmt.Errorf("invalid source representation %q: %w", from, err)
	}
	toRep, err := numeric.ParseRep(to)
	if err != nil {
		return nil, fmt.Errorf("invalid destination representation %q: %w", to, err)
	}

	m := magnitude.One()
	if factor != "" {
		m, err = magnitude.Parse(factor)
		if err != nil {
			return nil, fmt.Errorf("invalid factor %q: %w", factor, err)
		}
	}

	return &Conversion{
		BaseEntity: base,
		label:      label,
		from:       fromRep,
		to:         toRep,
		factor:     m,
	}, nil
}

// Label returns the human-readable name of the conversion.
func (c *Conversion) Label() string { return c.label }

// From returns the source representation.
func (c *Conversion) From() numeric.Rep { return c.from }

// To returns the destination representation.
func (c *Conversion) To() numeric.Rep { return c.to }

// Factor returns the exact conversion factor.
func (c *Conversion) Factor() magnitude.Magnitude { return c.factor }

// Repository defines persistence operations for catalog conversions.
type Repository interface {
	Save(ctx context.Context, conv *Conversion) error
	FindByID(ctx context.Context, id uuid.UUID) (*Conversion, error)
	FindByLabel(ctx context.Context, label string) (*Conversion, error)
	List(ctx context.Context) ([]*Conversion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
