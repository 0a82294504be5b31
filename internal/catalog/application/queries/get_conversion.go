package queries

import (
	"context"

	"github.com/google/uuid"

	analysis "github.com/felixgeelhaar/convrisk/internal/analysis/application"
	"github.com/felixgeelhaar/convrisk/internal/catalog/domain"
)

// GetConversionQuery contains the parameters for fetching a single conversion.
// Either ID or Label must be set; ID wins when both are present.
type GetConversionQuery struct {
	ID    uuid.UUID
	Label string
}

// GetConversionResult pairs the stored definition with its analysis report.
type GetConversionResult struct {
	Conversion ConversionDTO
	Report     *analysis.Report
}

// GetConversionHandler handles the GetConversionQuery.
type GetConversionHandler struct {
	conversions domain.Repository
	analyzer    *analysis.Analyzer
}

// NewGetConversionHandler creates a new GetConversionHandler.
func NewGetConversionHandler(conversions domain.Repository, analyzer *analysis.Analyzer) *GetConversionHandler {
	return &GetConversionHandler{conversions: conversions, analyzer: analyzer}
}

// Handle executes the GetConversionQuery.
func (h *GetConversionHandler) Handle(ctx context.Context, query GetConversionQuery) (*GetConversionResult, error) {
	var (
		conv *domain.Conversion
		err  error
	)
	if query.ID != uuid.Nil {
		conv, err = h.conversions.FindByID(ctx, query.ID)
	} else {
		conv, err = h.conversions.FindByLabel(ctx, query.Label)
	}
	if err != nil {
		return nil, err
	}

	report, err := h.analyzer.Analyze(analysis.ConversionSpec{
		From:   conv.From().String(),
		To:     conv.To().String(),
		Factor: conv.Factor().String(),
	})
	if err != nil {
		return nil, err
	}

	return &GetConversionResult{
		Conversion: toDTO(conv),
		Report:     report,
	}, nil
}
