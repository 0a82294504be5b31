package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer(t *testing.T) {
	t.Run("records duration and count", func(t *testing.T) {
		metrics := NewInMemoryMetrics()

		timer := StartTimer("analysis.build").WithMetrics(metrics)
		duration := timer.Stop()

		assert.GreaterOrEqual(t, duration, time.Duration(0))
		assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationTotal, T("operation", "analysis.build")))

		timings := metrics.GetTimings(MetricOperationDuration, T("operation", "analysis.build"))
		require.Len(t, timings, 1)
		assert.Equal(t, int64(0), metrics.GetCounter(MetricOperationErrors, T("operation", "analysis.build")))
	})

	t.Run("records errors separately", func(t *testing.T) {
		metrics := NewInMemoryMetrics()

		timer := StartTimer("analysis.build").WithMetrics(metrics)
		timer.StopWithError(errors.New("irrational factor"))

		assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationTotal, T("operation", "analysis.build")))
		assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationErrors, T("operation", "analysis.build")))
	})

	t.Run("logs completion at debug level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		StartTimer("analysis.build").WithLogger(logger).Stop()

		output := buf.String()
		assert.Contains(t, output, "operation completed")
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "operation=analysis.build")
	})

	t.Run("logs failure at error level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		StartTimer("analysis.build").WithLogger(logger).StopWithError(errors.New("boom"))

		output := buf.String()
		assert.Contains(t, output, "operation failed")
		assert.Contains(t, output, "level=ERROR")
		assert.Contains(t, output, "error=boom")
	})

	t.Run("elapsed does not stop the timer", func(t *testing.T) {
		metrics := NewInMemoryMetrics()
		timer := StartTimer("analysis.build").WithMetrics(metrics)

		assert.GreaterOrEqual(t, timer.Elapsed(), time.Duration(0))
		assert.Equal(t, int64(0), metrics.GetCounter(MetricOperationTotal, T("operation", "analysis.build")))
	})
}

func TestTimeOperation(t *testing.T) {
	metrics := NewInMemoryMetrics()

	err := TimeOperation(nil, metrics, "catalog.register", func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationTotal, T("operation", "catalog.register")))

	wantErr := errors.New("duplicate label")
	err = TimeOperation(nil, metrics, "catalog.register", func() error { return wantErr })
	assert.Equal(t, wantErr, err)
	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationErrors, T("operation", "catalog.register")))
}

func TestTimeOperationResult(t *testing.T) {
	metrics := NewInMemoryMetrics()

	got, err := TimeOperationResult(nil, metrics, "analysis.build", func() (string, error) {
		return "int32 -> int16", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "int32 -> int16", got)
	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationTotal, T("operation", "analysis.build")))

	timings := metrics.GetTimings(MetricOperationDuration, T("operation", "analysis.build"))
	assert.Len(t, timings, 1)
}
