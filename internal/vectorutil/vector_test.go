package vectorutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUnitLength(t *testing.T) {
	v := []float32{3, 4}
	out := Normalize(v)
	assert.InDelta(t, 1.0, math.Sqrt(float64(out[0]*out[0]+out[1]*out[1])), 1e-6)
}

func TestNormalizeZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	out := Normalize(v)
	assert.Equal(t, v, out)
}

func TestCosineDistanceIdentical(t *testing.T) {
	v := []float32{1, 2, 3}
	assert.InDelta(t, 0, CosineDistance(v, v), 1e-6)
}

func TestCosineDistanceOrthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 1, CosineDistance(a, b), 1e-6)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-5))
	assert.Equal(t, 1.0, Clamp01(5))
	assert.Equal(t, 0.5, Clamp01(0.5))
}
