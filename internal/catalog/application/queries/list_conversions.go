package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/convrisk/internal/catalog/domain"
)

// ConversionDTO is a data transfer object for catalog conversions.
type ConversionDTO struct {
	ID        uuid.UUID
	Label     string
	From      string
	To        string
	Factor    string
	CreatedAt time.Time
}

// ListConversionsQuery contains the parameters for listing conversions.
type ListConversionsQuery struct{}

// ListConversionsHandler handles the ListConversionsQuery.
type ListConversionsHandler struct {
	conversions domain.Repository
}

// NewListConversionsHandler creates a new ListConversionsHandler.
func NewListConversionsHandler(conversions domain.Repository) *ListConversionsHandler {
	return &ListConversionsHandler{conversions: conversions}
}

// Handle executes the ListConversionsQuery.
func (h *ListConversionsHandler) Handle(ctx context.Context, _ ListConversionsQuery) ([]ConversionDTO, error) {
	convs, err := h.conversions.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]ConversionDTO, 0, len(convs))
	for _, c := range convs {
		dtos = append(dtos, toDTO(c))
	}
	return dtos, nil
}

func toDTO(c *domain.Conversion) ConversionDTO {
	return ConversionDTO{
		ID:        c.ID(),
		Label:     c.Label(),
		From:      c.From().String(),
		To:        c.To().String(),
		Factor:    c.Factor().String(),
		CreatedAt: c.CreatedAt(),
	}
}
