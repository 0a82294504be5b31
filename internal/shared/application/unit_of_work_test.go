package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockUnitOfWork is a mock implementation of UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type txMarker struct{}

func newTxContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, txMarker{}, "tx")
}

func TestWithUnitOfWork(t *testing.T) {
	t.Run("commits after the registration succeeds", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := newTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)

		saved := false
		err := WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			saved = true
			assert.Equal(t, txCtx, ctx, "work should run under the transaction context")
			return nil
		})

		require.NoError(t, err)
		assert.True(t, saved)

		uow.AssertExpectations(t)
	})

	t.Run("rolls back when the work fails", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := newTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)

		errDuplicate := errors.New("conversion label already registered")
		err := WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			return errDuplicate
		})

		assert.Equal(t, errDuplicate, err)

		uow.AssertExpectations(t)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("never runs the work when begin fails", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		ctx := context.Background()

		errBusy := errors.New("database is locked")
		uow.On("Begin", ctx).Return(ctx, errBusy)

		ran := false
		err := WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			ran = true
			return nil
		})

		assert.Equal(t, errBusy, err)
		assert.False(t, ran)

		uow.AssertExpectations(t)
	})

	t.Run("surfaces the commit error", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := newTxContext(ctx)

		errCommit := errors.New("commit failed")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(errCommit)

		err := WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			return nil
		})

		assert.Equal(t, errCommit, err)

		uow.AssertExpectations(t)
	})

	t.Run("keeps the work error when rollback also fails", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := newTxContext(ctx)

		errWork := errors.New("factor not representable")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(errors.New("rollback failed"))

		err := WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			return errWork
		})

		assert.Equal(t, errWork, err)

		uow.AssertExpectations(t)
	})
}
