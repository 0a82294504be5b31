package numeric_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/convrisk/internal/numeric"
)

func TestParseRep(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want numeric.Rep
		ok   bool
	}{
		{"int8", "int8", numeric.Int8, true},
		{"int64", "int64", numeric.Int64, true},
		{"uint32", "uint32", numeric.Uint32, true},
		{"float32", "float32", numeric.Float32, true},
		{"float64", "float64", numeric.Float64, true},
		{"unknown", "int7", numeric.Rep{}, false},
		{"empty", "", numeric.Rep{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := numeric.ParseRep(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, numeric.ErrUnknownRep)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepExtremes(t *testing.T) {
	tests := []struct {
		rep     numeric.Rep
		lowest  string
		highest string
	}{
		{numeric.Int8, "-128", "127"},
		{numeric.Int16, "-32768", "32767"},
		{numeric.Int32, "-2147483648", "2147483647"},
		{numeric.Int64, "-9223372036854775808", "9223372036854775807"},
		{numeric.Uint8, "0", "255"},
		{numeric.Uint64, "0", "18446744073709551615"},
	}

	for _, tt := range tests {
		t.Run(tt.rep.String(), func(t *testing.T) {
			assert.Equal(t, tt.lowest, tt.rep.Lowest().String())
			assert.Equal(t, tt.highest, tt.rep.Highest().String())
		})
	}
}

func TestRepFloatExtremes(t *testing.T) {
	assert.Equal(t, math.MaxFloat64, numeric.Float64.Highest().Float64())
	assert.Equal(t, -math.MaxFloat64, numeric.Float64.Lowest().Float64())
	assert.Equal(t, float64(math.MaxFloat32), numeric.Float32.Highest().Float64())

	// The analyzers rely on Lowest being the exact negation of Highest for
	// floats.
	assert.True(t, numeric.Float32.Lowest().Equal(numeric.Float32.Highest().Neg()))
}

func TestRepPredicates(t *testing.T) {
	assert.True(t, numeric.Int32.IsInteger())
	assert.True(t, numeric.Int32.IsSigned())
	assert.True(t, numeric.Uint16.IsInteger())
	assert.False(t, numeric.Uint16.IsSigned())
	assert.True(t, numeric.Float32.IsFloat())
	assert.True(t, numeric.Float32.IsSigned())
	assert.False(t, numeric.Float64.IsInteger())
	assert.False(t, numeric.Rep{}.IsValid())
	assert.True(t, numeric.Uint64.IsValid())
}
