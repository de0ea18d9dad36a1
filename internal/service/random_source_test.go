package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomSourceIsDeterministicForSeed(t *testing.T) {
	a := NewRandomSource(7)
	b := NewRandomSource(7)

	for i := 0; i < 100; i++ {
		x, y := a.Float64(), b.Float64()
		assert.Equal(t, x, y)
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}
}

func TestRandomIndexBounds(t *testing.T) {
	assert.Equal(t, 0, randomIndex(&scriptedRandom{values: []float64{0.9}}, 1))
	assert.Equal(t, 0, randomIndex(&scriptedRandom{values: []float64{0.9}}, 0))
	assert.Equal(t, 3, randomIndex(&scriptedRandom{values: []float64{0.75}}, 4))
	assert.Equal(t, 3, randomIndex(&scriptedRandom{values: []float64{0.9999999999999999}}, 4))
}
