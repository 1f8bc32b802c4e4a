// Package cluster runs k-means over team feature vectors and derives the
// elbow curve used to pick a cluster count.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mpraski/clusters"
	"go.uber.org/zap"
)

var (
	// ErrEmptyPoints is returned when there is nothing to cluster.
	ErrEmptyPoints = errors.New("no points to cluster")
	// ErrInvalidK is returned for k < 1 or k larger than the point count.
	ErrInvalidK = errors.New("invalid cluster count")
	// ErrRaggedPoints is returned when points differ in dimension.
	ErrRaggedPoints = errors.New("points have differing dimensions")
	// ErrNonFinite is returned for NaN or infinite coordinates or inertia.
	ErrNonFinite = errors.New("non-finite inertia")
)

// DefaultIterations bounds Lloyd iterations per fit.
const DefaultIterations = 300

// Options tunes k-means fitting.
type Options struct {
	Iterations int
	Logger     *zap.Logger
}

func (o Options) iterations() int {
	if o.Iterations <= 0 {
		return DefaultIterations
	}
	return o.Iterations
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Result is one k-means fit.
type Result struct {
	K         int
	Labels    []int // contiguous, 0..len(Centroids)-1
	Centroids [][]float64
	Sizes     []int
	// Inertia is the sum of squared distances from each point to its centroid.
	Inertia float64
}

// refits bounds how often a fit that left a cluster empty is retried.
const refits = 5

// Fit clusters points into k groups. When the points hold fewer than k
// distinct positions, the fit uses that many clusters instead, so
// len(Centroids) may be smaller than K.
func Fit(points [][]float64, k int, opt Options) (*Result, error) {
	if err := validate(points, k); err != nil {
		return nil, err
	}
	byPosition, n := positions(points)
	eff := min(k, n)
	var res *Result
	switch {
	case eff == 1:
		res = summarize(points, k, make([]int, len(points)))
	case eff == n:
		// one cluster per distinct position is exact
		res = summarize(points, k, byPosition)
	default:
		for attempt := 0; attempt < refits; attempt++ {
			guesses, err := learn(points, eff, opt.iterations())
			if err != nil {
				return nil, fmt.Errorf("kmeans k=%d: %w", k, err)
			}
			r := summarize(points, k, relabel(guesses))
			if res == nil || better(r, res) {
				res = r
			}
			if len(res.Sizes) == eff {
				break
			}
			opt.logger().Debug("kmeans left a cluster empty, refitting",
				zap.Int("k", eff), zap.Int("clusters", len(r.Sizes)), zap.Int("attempt", attempt+1))
		}
	}
	if math.IsNaN(res.Inertia) || math.IsInf(res.Inertia, 0) {
		return nil, fmt.Errorf("kmeans k=%d: %w", k, ErrNonFinite)
	}
	opt.logger().Debug("kmeans fit",
		zap.Int("k", k),
		zap.Int("points", len(points)),
		zap.Ints("sizes", res.Sizes),
		zap.Float64("inertia", res.Inertia))
	return res, nil
}

// learn runs the library fit on a private copy: it seeds centroids with
// references to input rows and updates them in place.
func learn(points [][]float64, k, iterations int) ([]int, error) {
	c, err := clusters.KMeans(iterations, k, clusters.EuclideanDistance)
	if err != nil {
		return nil, err
	}
	if err := c.Learn(clone(points)); err != nil {
		return nil, fmt.Errorf("learn: %w", err)
	}
	return c.Guesses(), nil
}

// better prefers fits that use more clusters, then lower inertia.
func better(a, b *Result) bool {
	if len(a.Sizes) != len(b.Sizes) {
		return len(a.Sizes) > len(b.Sizes)
	}
	return a.Inertia < b.Inertia
}

func clone(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = append([]float64(nil), p...)
	}
	return out
}

// positions labels each point by its distinct position, in first-seen
// order, and returns the number of distinct positions.
func positions(points [][]float64) ([]int, int) {
	ids := make(map[string]int, len(points))
	labels := make([]int, len(points))
	for i, p := range points {
		key := fmt.Sprint(p)
		id, ok := ids[key]
		if !ok {
			id = len(ids)
			ids[key] = id
		}
		labels[i] = id
	}
	return labels, len(ids)
}

// Sweep fits one model per k, in order.
func Sweep(points [][]float64, ks []int, opt Options) ([]*Result, error) {
	out := make([]*Result, 0, len(ks))
	for _, k := range ks {
		r, err := Fit(points, k, opt)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func validate(points [][]float64, k int) error {
	if len(points) == 0 {
		return ErrEmptyPoints
	}
	if k < 1 || k > len(points) {
		return fmt.Errorf("%w: k=%d with %d points", ErrInvalidK, k, len(points))
	}
	dims := len(points[0])
	if dims == 0 {
		return fmt.Errorf("%w: zero-length point", ErrRaggedPoints)
	}
	for i, p := range points {
		if len(p) != dims {
			return fmt.Errorf("%w: point %d has %d, want %d", ErrRaggedPoints, i, len(p), dims)
		}
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: point %d holds %v", ErrNonFinite, i, v)
			}
		}
	}
	return nil
}

// relabel maps arbitrary cluster ids onto 0..n-1 preserving their order.
func relabel(guesses []int) []int {
	ids := make([]int, 0)
	seen := map[int]bool{}
	for _, g := range guesses {
		if !seen[g] {
			seen[g] = true
			ids = append(ids, g)
		}
	}
	sort.Ints(ids)
	idx := make(map[int]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	out := make([]int, len(guesses))
	for i, g := range guesses {
		out[i] = idx[g]
	}
	return out
}

// summarize recomputes centroids as member means and the resulting inertia.
func summarize(points [][]float64, k int, labels []int) *Result {
	n := 0
	for _, l := range labels {
		if l+1 > n {
			n = l + 1
		}
	}
	dims := len(points[0])
	res := &Result{K: k, Labels: labels, Centroids: make([][]float64, n), Sizes: make([]int, n)}
	for i := range res.Centroids {
		res.Centroids[i] = make([]float64, dims)
	}
	for i, p := range points {
		l := labels[i]
		res.Sizes[l]++
		for d, v := range p {
			res.Centroids[l][d] += v
		}
	}
	for l, c := range res.Centroids {
		for d := range c {
			c[d] /= float64(res.Sizes[l])
		}
	}
	for i, p := range points {
		res.Inertia += squaredDistance(p, res.Centroids[labels[i]])
	}
	return res
}

func squaredDistance(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
