package numeric_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/convrisk/internal/numeric"
)

func mustInt(t *testing.T, rep numeric.Rep, v int64) numeric.Value {
	t.Helper()
	val, err := numeric.FromInt64(rep, v)
	require.NoError(t, err)
	return val
}

func mustFloat(t *testing.T, rep numeric.Rep, v float64) numeric.Value {
	t.Helper()
	val, err := numeric.FromFloat64(rep, v)
	require.NoError(t, err)
	return val
}

func TestFromInt64RangeChecks(t *testing.T) {
	_, err := numeric.FromInt64(numeric.Int8, 128)
	assert.Error(t, err)
	_, err = numeric.FromInt64(numeric.Int8, -129)
	assert.Error(t, err)
	_, err = numeric.FromInt64(numeric.Uint16, -1)
	assert.Error(t, err)

	v, err := numeric.FromInt64(numeric.Int8, -128)
	require.NoError(t, err)
	assert.True(t, v.Equal(numeric.Int8.Lowest()))
}

func TestParseValue(t *testing.T) {
	v, err := numeric.ParseValue(numeric.Int16, "-32768")
	require.NoError(t, err)
	assert.Equal(t, int64(-32768), v.Int64())

	_, err = numeric.ParseValue(numeric.Int16, "32768")
	assert.Error(t, err)

	f, err := numeric.ParseValue(numeric.Float32, "0.5")
	require.NoError(t, err)
	assert.Equal(t, 0.5, f.Float64())
}

func TestCmpAcrossReps(t *testing.T) {
	tests := []struct {
		name string
		a, b numeric.Value
		want int
	}{
		{"equal across widths", mustInt(t, numeric.Int8, 5), mustInt(t, numeric.Int64, 5), 0},
		{"signed below unsigned", mustInt(t, numeric.Int8, -1), numeric.Uint64.Zero(), -1},
		{"uint64 max above int64 max", numeric.Uint64.Highest(), numeric.Int64.Highest(), 1},
		{"float vs int exact", mustFloat(t, numeric.Float64, 3), mustInt(t, numeric.Int32, 3), 0},
		{"float fraction", mustFloat(t, numeric.Float64, 2.5), mustInt(t, numeric.Int32, 2), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Cmp(tt.b))
		})
	}
}

func TestFloat32RoundsThroughEveryOperation(t *testing.T) {
	// 16777217 = 2^24 + 1 is the first integer float32 cannot hold.
	v := mustFloat(t, numeric.Float32, 16777217)
	assert.Equal(t, float64(16777216), v.Float64())

	product := mustFloat(t, numeric.Float32, 16777216).Mul(mustFloat(t, numeric.Float32, 1))
	assert.Equal(t, float64(16777216), product.Float64())
}

func TestDivTruncatesTowardZero(t *testing.T) {
	assert.Equal(t, int64(-3), mustInt(t, numeric.Int32, -7).Div(mustInt(t, numeric.Int32, 2)).Int64())
	assert.Equal(t, int64(3), mustInt(t, numeric.Int32, 7).Div(mustInt(t, numeric.Int32, 2)).Int64())
}

func TestConvert(t *testing.T) {
	t.Run("float to int truncates toward zero", func(t *testing.T) {
		assert.Equal(t, int64(-3), mustFloat(t, numeric.Float64, -3.9).Convert(numeric.Int32).Int64())
		assert.Equal(t, int64(3), mustFloat(t, numeric.Float64, 3.9).Convert(numeric.Int32).Int64())
	})

	t.Run("out of range saturates", func(t *testing.T) {
		assert.True(t, mustInt(t, numeric.Int32, 70000).Convert(numeric.Int16).Equal(numeric.Int16.Highest()))
		assert.True(t, mustInt(t, numeric.Int32, -70000).Convert(numeric.Int16).Equal(numeric.Int16.Lowest()))
		assert.True(t, mustInt(t, numeric.Int8, -1).Convert(numeric.Uint8).Equal(numeric.Uint8.Zero()))
	})

	t.Run("int to float", func(t *testing.T) {
		f := mustInt(t, numeric.Int64, 1<<40).Convert(numeric.Float64)
		assert.Equal(t, float64(1<<40), f.Float64())
	})
}

func TestRatIsExactForFloats(t *testing.T) {
	tests := []struct {
		name string
		v    numeric.Value
		want *big.Rat
	}{
		{"exact half", mustFloat(t, numeric.Float64, 0.5), big.NewRat(1, 2)},
		{"negative quarter", mustFloat(t, numeric.Float64, -0.25), big.NewRat(-1, 4)},
		{"float32 payload", mustFloat(t, numeric.Float32, 1.5), big.NewRat(3, 2)},
		{"large integer", mustFloat(t, numeric.Float64, 1<<52), new(big.Rat).SetInt64(1 << 52)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0, tt.v.Rat().Cmp(tt.want))
		})
	}

	// 0.1 has no exact binary form; Rat must return the stored
	// approximation, not the decimal literal.
	tenth := mustFloat(t, numeric.Float64, 0.1)
	assert.NotEqual(t, 0, tenth.Rat().Cmp(big.NewRat(1, 10)))
	back, _ := tenth.Rat().Float64()
	assert.Equal(t, 0.1, back)
}

func TestFromRat(t *testing.T) {
	half := big.NewRat(7, 2)
	negHalf := big.NewRat(-7, 2)

	t.Run("integer rounding directions", func(t *testing.T) {
		assert.Equal(t, int64(4), numeric.FromRat(numeric.Int32, half, numeric.RoundCeil).Int64())
		assert.Equal(t, int64(3), numeric.FromRat(numeric.Int32, half, numeric.RoundFloor).Int64())
		assert.Equal(t, int64(-3), numeric.FromRat(numeric.Int32, negHalf, numeric.RoundCeil).Int64())
		assert.Equal(t, int64(-4), numeric.FromRat(numeric.Int32, negHalf, numeric.RoundFloor).Int64())
	})

	t.Run("float stays on the safe side", func(t *testing.T) {
		third := big.NewRat(1, 3)
		up := numeric.FromRat(numeric.Float64, third, numeric.RoundCeil)
		down := numeric.FromRat(numeric.Float64, third, numeric.RoundFloor)
		assert.True(t, up.Rat().Cmp(third) >= 0)
		assert.True(t, down.Rat().Cmp(third) <= 0)
		assert.Equal(t, math.Nextafter(down.Float64(), math.Inf(1)), up.Float64())
	})

	t.Run("saturates at the rep extremes", func(t *testing.T) {
		huge := new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), 40))
		assert.True(t, numeric.FromRat(numeric.Int16, huge, numeric.RoundFloor).Equal(numeric.Int16.Highest()))
		assert.True(t, numeric.FromRat(numeric.Uint8, big.NewRat(-5, 1), numeric.RoundCeil).Equal(numeric.Uint8.Zero()))
	})
}
