package health

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		weight, height float64
		want           float64
		band           Band
	}{
		{70, 175, 22.9, BandNormal},
		{50, 160, 19.5, BandNormal},
		{100, 160, 39.1, BandObese},
		{45, 170, 15.6, BandUnderweight},
		{80, 170, 27.7, BandOverweight},
	}
	for _, tt := range tests {
		got, err := Calculate(tt.weight, tt.height)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Value, "Calculate(%v, %v)", tt.weight, tt.height)
		assert.Equal(t, tt.band, got.Band, "Calculate(%v, %v)", tt.weight, tt.height)
	}
}

func TestCalculateZeroHeight(t *testing.T) {
	_, err := Calculate(70, 0)
	var divErr *DivisionByZeroError
	require.True(t, errors.As(err, &divErr))
}

func TestCalculateInvalid(t *testing.T) {
	for _, in := range [][2]float64{{0, 170}, {-5, 170}, {70, -170}} {
		_, err := Calculate(in[0], in[1])
		assert.ErrorIs(t, err, ErrInvalidMeasurement, "Calculate(%v, %v)", in[0], in[1])
	}
}

func TestClassifyBoundaries(t *testing.T) {
	assert.Equal(t, BandUnderweight, Classify(18.4))
	assert.Equal(t, BandNormal, Classify(18.5))
	assert.Equal(t, BandNormal, Classify(24.9))
	assert.Equal(t, BandOverweight, Classify(25))
	assert.Equal(t, BandOverweight, Classify(29.9))
	assert.Equal(t, BandObese, Classify(30))
}
