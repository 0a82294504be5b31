package magnitude_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/convrisk/internal/magnitude"
	"github.com/felixgeelhaar/convrisk/internal/numeric"
)

func ratio(t *testing.T, num, den int64) magnitude.Magnitude {
	t.Helper()
	m, err := magnitude.NewRatio(num, den)
	require.NoError(t, err)
	return m
}

func TestConstruction(t *testing.T) {
	_, err := magnitude.NewRatio(0, 3)
	assert.ErrorIs(t, err, magnitude.ErrZeroMagnitude)
	_, err = magnitude.NewRatio(1, 0)
	assert.Error(t, err)
	_, err = magnitude.FromRat(new(big.Rat))
	assert.ErrorIs(t, err, magnitude.ErrZeroMagnitude)

	assert.True(t, magnitude.One().IsOne())
	assert.True(t, magnitude.FromInt(-3).IsInteger())
	assert.False(t, magnitude.FromInt(-3).IsPositive())
	assert.True(t, ratio(t, 3, 2).IsRational())
	assert.False(t, ratio(t, 3, 2).IsInteger())
	assert.False(t, magnitude.Pi().IsRational())
}

func TestSqrtInt(t *testing.T) {
	perfect, err := magnitude.SqrtInt(144)
	require.NoError(t, err)
	assert.True(t, perfect.Equal(magnitude.FromInt(12)))

	eight, err := magnitude.SqrtInt(8)
	require.NoError(t, err)
	two, err := magnitude.SqrtInt(2)
	require.NoError(t, err)
	// sqrt(8) = 2*sqrt(2)
	assert.True(t, eight.Equal(magnitude.FromInt(2).Mul(two)))

	_, err = magnitude.SqrtInt(0)
	assert.Error(t, err)
	_, err = magnitude.SqrtInt(-4)
	assert.Error(t, err)
}

func TestMulFoldsExactly(t *testing.T) {
	// sqrt(2) * sqrt(2) folds back into the rational part.
	two, err := magnitude.SqrtInt(2)
	require.NoError(t, err)
	assert.True(t, two.Mul(two).Equal(magnitude.FromInt(2)))

	// pi * pi^-1 cancels.
	assert.True(t, magnitude.Pi().Mul(magnitude.Pi().Inverse()).IsOne())

	// 3/2 * 2/3 cancels.
	assert.True(t, ratio(t, 3, 2).Mul(ratio(t, 2, 3)).IsOne())
}

func TestInverseAndAbs(t *testing.T) {
	m := ratio(t, -3, 2)
	assert.True(t, m.Inverse().Equal(ratio(t, -2, 3)))
	assert.True(t, m.Abs().Equal(ratio(t, 3, 2)))
	assert.Equal(t, 1, m.AbsCmpOne())
	assert.Equal(t, -1, m.Inverse().AbsCmpOne())
	assert.Equal(t, 0, magnitude.FromInt(-1).AbsCmpOne())
	assert.Equal(t, 1, magnitude.Pi().AbsCmpOne())
	assert.Equal(t, -1, magnitude.Pi().Inverse().AbsCmpOne())
}

func TestNumDenom(t *testing.T) {
	m := ratio(t, -6, 4)
	num, ok := m.Num()
	require.True(t, ok)
	den, ok := m.Denom()
	require.True(t, ok)
	assert.Equal(t, int64(-3), num.Int64())
	assert.Equal(t, int64(2), den.Int64())

	_, ok = magnitude.Pi().Num()
	assert.False(t, ok)
}

func TestValueIn(t *testing.T) {
	t.Run("integer in integer rep", func(t *testing.T) {
		v, err := magnitude.FromInt(1000).ValueIn(numeric.Int32)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), v.Int64())
	})

	t.Run("too large for integer rep", func(t *testing.T) {
		_, err := magnitude.FromInt(1000).ValueIn(numeric.Int8)
		assert.ErrorIs(t, err, magnitude.ErrCannotFit)
	})

	t.Run("non-integer in integer rep", func(t *testing.T) {
		_, err := ratio(t, 3, 2).ValueIn(numeric.Int32)
		assert.ErrorIs(t, err, magnitude.ErrCannotFit)
	})

	t.Run("irrational in integer rep", func(t *testing.T) {
		_, err := magnitude.Pi().ValueIn(numeric.Int64)
		assert.ErrorIs(t, err, magnitude.ErrCannotFit)
	})

	t.Run("irrational approximated in float rep", func(t *testing.T) {
		v, err := magnitude.Pi().ValueIn(numeric.Float64)
		require.NoError(t, err)
		assert.Equal(t, math.Pi, v.Float64())
	})

	t.Run("overflows float32", func(t *testing.T) {
		huge := new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(40), nil))
		m, err := magnitude.FromRat(huge)
		require.NoError(t, err)
		_, err = m.ValueIn(numeric.Float32)
		assert.ErrorIs(t, err, magnitude.ErrCannotFit)

		v, err := m.ValueIn(numeric.Float64)
		require.NoError(t, err)
		assert.Equal(t, 1e40, v.Float64())
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want magnitude.Magnitude
	}{
		{"integer", "1000", magnitude.FromInt(1000)},
		{"negative", "-5", magnitude.FromInt(-5)},
		{"ratio", "3/2", ratio(t, 3, 2)},
		{"chained", "254/100/100", ratio(t, 254, 10000)},
		{"product", "60*60*24", magnitude.FromInt(86400)},
		{"pi over integer", "pi/180", magnitude.Pi().Mul(ratio(t, 1, 180))},
		{"sqrt", "sqrt(2)", mustSqrt(t, 2)},
		{"sqrt folds", "sqrt(2)*sqrt(2)", magnitude.FromInt(2)},
		{"spaces", " 3 / 2 ", ratio(t, 3, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := magnitude.Parse(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "0", "3/0", "abc", "3//2", "1.5", "3*", "sqrt(-1)"} {
		t.Run(in, func(t *testing.T) {
			_, err := magnitude.Parse(in)
			assert.Error(t, err, "input %q", in)
		})
	}
}

func TestStringRoundTrips(t *testing.T) {
	for _, m := range []magnitude.Magnitude{
		magnitude.FromInt(42),
		ratio(t, -3, 2),
		magnitude.Pi(),
		magnitude.Pi().Mul(ratio(t, 1, 180)),
		mustSqrt(t, 2),
	} {
		back, err := magnitude.Parse(m.String())
		require.NoError(t, err, "parsing %q", m.String())
		assert.True(t, back.Equal(m), "round trip of %q", m.String())
	}
}

func mustSqrt(t *testing.T, n int64) magnitude.Magnitude {
	t.Helper()
	m, err := magnitude.SqrtInt(n)
	require.NoError(t, err)
	return m
}
