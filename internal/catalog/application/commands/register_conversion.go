package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	analysis "github.com/felixgeelhaar/convrisk/internal/analysis/application"
	"github.com/felixgeelhaar/convrisk/internal/catalog/domain"
	sharedApplication "github.com/felixgeelhaar/convrisk/internal/shared/application"
)

// RegisterConversionCommand contains the data needed to register a conversion.
type RegisterConversionCommand struct {
	Label  string
	From   string
	To     string
	Factor string
}

// RegisterConversionResult contains the outcome of registering a conversion.
type RegisterConversionResult struct {
	ID     uuid.UUID
	Label  string
	Report *analysis.Report
}

// RegisterConversionHandler handles the RegisterConversionCommand.
type RegisterConversionHandler struct {
	conversions domain.Repository
	analyzer    *analysis.Analyzer
	uow         sharedApplication.UnitOfWork
}

// NewRegisterConversionHandler creates a new RegisterConversionHandler.
func NewRegisterConversionHandler(conversions domain.Repository, analyzer *analysis.Analyzer, uow sharedApplication.UnitOfWork) *RegisterConversionHandler {
	return &RegisterConversionHandler{
		conversions: conversions,
		analyzer:    analyzer,
		uow:         uow,
	}
}

// Handle executes the RegisterConversionCommand.
// The conversion is analyzed before it is saved, so an unbuildable definition
// (unknown rep, irrational factor on an integer rep) never enters the catalog.
func (h *RegisterConversionHandler) Handle(ctx context.Context, cmd RegisterConversionCommand) (*RegisterConversionResult, error) {
	conv, err := domain.NewConversion(cmd.Label, cmd.From, cmd.To, cmd.Factor)
	if err != nil {
		return nil, err
	}

	report, err := h.analyzer.Analyze(analysis.ConversionSpec{
		From:   cmd.From,
		To:     cmd.To,
		Factor: cmd.Factor,
	})
	if err != nil {
		return nil, fmt.Errorf("conversion is not analyzable: %w", err)
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		existing, err := h.conversions.FindByLabel(txCtx, conv.Label())
		if err != nil && !errors.Is(err, domain.ErrConversionNotFound) {
			return fmt.Errorf("failed to check existing conversion: %w", err)
		}
		if existing != nil {
			return domain.ErrDuplicateLabel
		}
		return h.conversions.Save(txCtx, conv)
	})
	if err != nil {
		return nil, err
	}

	return &RegisterConversionResult{
		ID:     conv.ID(),
		Label:  conv.Label(),
		Report: report,
	}, nil
}
