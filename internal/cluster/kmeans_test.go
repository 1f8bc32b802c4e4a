package cluster

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// three tight groups far apart
var groupedPoints = [][]float64{
	{0, 0}, {0, 1}, {1, 0},
	{10, 10}, {10, 11}, {11, 10},
	{20, 0}, {20, 1}, {21, 0},
}

func TestFitSingleClusterIsExact(t *testing.T) {
	res, err := Fit([][]float64{{0, 0}, {2, 0}, {0, 2}, {2, 2}}, 1, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0}, res.Labels)
	assert.Equal(t, []int{4}, res.Sizes)
	assert.Equal(t, []float64{1, 1}, res.Centroids[0])
	assert.InDelta(t, 8.0, res.Inertia, 1e-9)
}

func TestFitProducesConsistentPartition(t *testing.T) {
	single, err := Fit(groupedPoints, 1, Options{})
	require.NoError(t, err)

	for _, k := range []int{2, 3, 4} {
		res, err := Fit(groupedPoints, k, Options{Iterations: 100})
		require.NoError(t, err, "k=%d", k)
		require.Len(t, res.Labels, len(groupedPoints))
		assert.Equal(t, k, res.K)
		assert.LessOrEqual(t, len(res.Centroids), k)

		total := 0
		for _, s := range res.Sizes {
			assert.Positive(t, s)
			total += s
		}
		assert.Equal(t, len(groupedPoints), total)
		for _, l := range res.Labels {
			assert.GreaterOrEqual(t, l, 0)
			assert.Less(t, l, len(res.Centroids))
		}
		assert.LessOrEqual(t, res.Inertia, single.Inertia+1e-9, "k=%d", k)
	}
}

func TestFitValidation(t *testing.T) {
	_, err := Fit(nil, 2, Options{})
	assert.ErrorIs(t, err, ErrEmptyPoints)

	_, err = Fit(groupedPoints, 0, Options{})
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = Fit(groupedPoints, len(groupedPoints)+1, Options{})
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = Fit([][]float64{{1, 2}, {3}}, 1, Options{})
	assert.ErrorIs(t, err, ErrRaggedPoints)
}

func TestRelabelIsContiguous(t *testing.T) {
	assert.Equal(t, []int{1, 1, 0, 2, 0}, relabel([]int{5, 5, 2, 9, 2}))
	assert.Equal(t, []int{0, 1, 0}, relabel([]int{1, 2, 1}))
}

func TestSummarizeCentroidsAndInertia(t *testing.T) {
	pts := [][]float64{{0, 0}, {2, 0}, {10, 10}, {10, 12}}
	res := summarize(pts, 2, []int{0, 0, 1, 1})
	assert.Equal(t, []int{2, 2}, res.Sizes)
	assert.Equal(t, [][]float64{{1, 0}, {10, 11}}, res.Centroids)
	assert.InDelta(t, 4.0, res.Inertia, 1e-9)
}

func TestSweep(t *testing.T) {
	results, err := Sweep(groupedPoints, KRange(5), Options{})
	require.NoError(t, err)
	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, i+1, r.K)
	}
}

// tiedPoints has eight teams on three distinct positions.
var tiedPoints = [][]float64{
	{20, 80}, {20, 80}, {20, 80},
	{25, 75}, {25, 75}, {25, 75},
	{18, 82}, {18, 82},
}

func deepCopy(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = append([]float64(nil), p...)
	}
	return out
}

func TestFitLeavesInputUntouched(t *testing.T) {
	pts := deepCopy(groupedPoints)
	want := deepCopy(groupedPoints)

	_, err := Elbow(pts, len(pts)+1, Options{Iterations: 50})
	require.NoError(t, err)
	_, err = Sweep(pts, KRange(5), Options{Iterations: 50})
	require.NoError(t, err)

	if diff := cmp.Diff(want, pts); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestFitInertiaNeverBeatsOptimum(t *testing.T) {
	// three groups of three at unit offsets: the best k=3 inertia is 4
	for i := 0; i < 20; i++ {
		res, err := Fit(groupedPoints, 3, Options{Iterations: 100})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Inertia, 4.0-1e-9)
	}
}

func TestFitTiedPointsStaysFinite(t *testing.T) {
	for i := 0; i < 50; i++ {
		res, err := Fit(tiedPoints, 5, Options{Iterations: 50})
		require.NoError(t, err)
		assert.Equal(t, 5, res.K)
		assert.LessOrEqual(t, len(res.Centroids), 3)
		assert.False(t, math.IsNaN(res.Inertia))
		for _, s := range res.Sizes {
			assert.Positive(t, s)
		}
	}
}

func TestElbowTiedPointsStaysFinite(t *testing.T) {
	for i := 0; i < 50; i++ {
		curve, err := Elbow(tiedPoints, 10, Options{Iterations: 50})
		require.NoError(t, err)
		require.Len(t, curve, len(tiedPoints)-1)
		for _, p := range curve {
			assert.False(t, math.IsNaN(p.Inertia) || math.IsInf(p.Inertia, 0), "k=%d", p.K)
		}
		// three distinct positions: from k=3 on every point sits on its centroid
		assert.InDelta(t, 0, curve[len(curve)-1].Inertia, 1e-9)
	}
}

func TestFitRejectsNonFinite(t *testing.T) {
	_, err := Fit([][]float64{{1, 2}, {math.NaN(), 1}}, 1, Options{})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestPositions(t *testing.T) {
	labels, n := positions(tiedPoints)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 2, 2}, labels)

	_, n = positions(groupedPoints)
	assert.Equal(t, len(groupedPoints), n)
}
