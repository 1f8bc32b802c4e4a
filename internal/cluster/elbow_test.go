package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElbowCoversOneToMaxKExclusive(t *testing.T) {
	curve, err := Elbow(groupedPoints, 6, Options{})
	require.NoError(t, err)
	require.Len(t, curve, 5)
	for i, p := range curve {
		assert.Equal(t, i+1, p.K)
		assert.GreaterOrEqual(t, p.Inertia, 0.0)
	}
	for _, p := range curve[1:] {
		assert.LessOrEqual(t, p.Inertia, curve[0].Inertia+1e-9)
	}
}

func TestElbowCapsAtPointCount(t *testing.T) {
	pts := [][]float64{{0}, {5}, {10}}
	curve, err := Elbow(pts, 10, Options{})
	require.NoError(t, err)
	assert.Len(t, curve, 2)
}

func TestElbowRejectsSmallMaxK(t *testing.T) {
	_, err := Elbow(groupedPoints, 1, Options{})
	assert.ErrorIs(t, err, ErrInvalidK)
	_, err = Elbow(nil, 10, Options{})
	assert.ErrorIs(t, err, ErrEmptyPoints)
}

func TestKRange(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, KRange(3))
	assert.Empty(t, KRange(0))
}
