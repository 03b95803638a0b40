package ptmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedianOdd(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3, 2, 4}))
}

func TestMedianEven(t *testing.T) {
	assert.Equal(t, 2.5, Median([]float64{1, 2, 3, 4}))
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	v := []float64{5, 1, 3}
	_ = Median(v)
	require.Equal(t, []float64{5, 1, 3}, v)
}

func TestMedianSingle(t *testing.T) {
	assert.Equal(t, 7.0, Median([]float64{7}))
}

func TestMAD(t *testing.T) {
	v := []float64{1, 2, 3, 4, 5}
	center := Median(v)
	assert.Equal(t, 1.0, MAD(v, center))
}

func TestMADZeroWhenMajorityEqual(t *testing.T) {
	v := []float64{5, 5, 5, 5, 9}
	assert.Equal(t, 0.0, MAD(v, Median(v)))
}

func TestWinsorizeClampsBothDirections(t *testing.T) {
	out := Winsorize([]float64{-10, -1, 0, 1, 10}, -2, 2)
	assert.Equal(t, []float64{-2, -1, 0, 1, 2}, out)
}

func TestWinsorizeIntoAliasing(t *testing.T) {
	v := []float64{-10, 0, 10}
	WinsorizeInto(v, v, -5, 5)
	assert.Equal(t, []float64{-5, 0, 5}, v)
}

func TestHuberPsi(t *testing.T) {
	assert.Equal(t, 1.5, HuberPsi(3.0, 1.5))
	assert.Equal(t, -1.5, HuberPsi(-3.0, 1.5))
	assert.Equal(t, 0.5, HuberPsi(0.5, 1.5))
}
