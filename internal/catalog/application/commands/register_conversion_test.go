package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	analysis "github.com/felixgeelhaar/convrisk/internal/analysis/application"
	"github.com/felixgeelhaar/convrisk/internal/catalog/application/commands"
	"github.com/felixgeelhaar/convrisk/internal/catalog/domain"
	"github.com/felixgeelhaar/convrisk/pkg/observability"
)

// mockConversionRepo is a mock implementation of domain.Repository.
type mockConversionRepo struct {
	mock.Mock
}

func (m *mockConversionRepo) Save(ctx context.Context, conv *domain.Conversion) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *mockConversionRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Conversion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}

func (m *mockConversionRepo) FindByLabel(ctx context.Context, label string) (*domain.Conversion, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}

func (m *mockConversionRepo) List(ctx context.Context) ([]*domain.Conversion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversion), args.Error(1)
}

func (m *mockConversionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// noopUnitOfWork passes the context through without starting a transaction.
type noopUnitOfWork struct{}

func (noopUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (noopUnitOfWork) Commit(ctx context.Context) error                   { return nil }
func (noopUnitOfWork) Rollback(ctx context.Context) error                 { return nil }

func newTestAnalyzer() *analysis.Analyzer {
	return analysis.NewAnalyzer(slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NoopMetrics{})
}

func TestRegisterConversion_Success(t *testing.T) {
	repo := new(mockConversionRepo)
	repo.On("FindByLabel", mock.Anything, "inches-to-cm").Return(nil, domain.ErrConversionNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Conversion")).Return(nil)

	handler := commands.NewRegisterConversionHandler(repo, newTestAnalyzer(), noopUnitOfWork{})

	result, err := handler.Handle(context.Background(), commands.RegisterConversionCommand{
		Label:  "inches-to-cm",
		From:   "int32",
		To:     "int32",
		Factor: "254/100",
	})
	require.NoError(t, err)
	assert.Equal(t, "inches-to-cm", result.Label)
	assert.NotEqual(t, uuid.Nil, result.ID)
	require.NotNil(t, result.Report)
	assert.False(t, result.Report.MaxGood.CannotOverflow())
	repo.AssertExpectations(t)
}

func TestRegisterConversion_DuplicateLabel(t *testing.T) {
	existing, err := domain.NewConversion("taken", "int32", "int32", "2")
	require.NoError(t, err)

	repo := new(mockConversionRepo)
	repo.On("FindByLabel", mock.Anything, "taken").Return(existing, nil)

	handler := commands.NewRegisterConversionHandler(repo, newTestAnalyzer(), noopUnitOfWork{})

	_, err = handler.Handle(context.Background(), commands.RegisterConversionCommand{
		Label: "taken",
		From:  "int32",
		To:    "int32",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateLabel)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegisterConversion_RejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		cmd  commands.RegisterConversionCommand
	}{
		{
			name: "empty label",
			cmd:  commands.RegisterConversionCommand{From: "int32", To: "int16"},
		},
		{
			name: "unknown rep",
			cmd:  commands.RegisterConversionCommand{Label: "x", From: "int128", To: "int16"},
		},
		{
			name: "bad factor",
			cmd:  commands.RegisterConversionCommand{Label: "x", From: "int32", To: "int16", Factor: "3//2"},
		},
		{
			name: "irrational factor between integer reps",
			cmd:  commands.RegisterConversionCommand{Label: "x", From: "int32", To: "int16", Factor: "pi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockConversionRepo)
			repo.On("FindByLabel", mock.Anything, mock.Anything).Return(nil, domain.ErrConversionNotFound)
			handler := commands.NewRegisterConversionHandler(repo, newTestAnalyzer(), noopUnitOfWork{})

			_, err := handler.Handle(context.Background(), tt.cmd)
			assert.Error(t, err)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}
