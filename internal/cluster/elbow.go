package cluster

import "fmt"

// ElbowPoint is the inertia of the fit with K clusters.
type ElbowPoint struct {
	K       int     `json:"k"`
	Inertia float64 `json:"inertia"`
}

// Elbow fits k = 1 .. maxK-1 and returns the inertia curve. maxK is capped
// at len(points) so no fit has more clusters than points-1.
func Elbow(points [][]float64, maxK int, opt Options) ([]ElbowPoint, error) {
	if len(points) == 0 {
		return nil, ErrEmptyPoints
	}
	if maxK < 2 {
		return nil, fmt.Errorf("%w: elbow needs max k >= 2, got %d", ErrInvalidK, maxK)
	}
	if limit := max(len(points), 2); maxK > limit {
		opt.logger().Sugar().Debugf("elbow: capping max k %d to %d points", maxK, len(points))
		maxK = limit
	}
	out := make([]ElbowPoint, 0, maxK-1)
	for k := 1; k < maxK; k++ {
		r, err := Fit(points, k, opt)
		if err != nil {
			return nil, fmt.Errorf("elbow: %w", err)
		}
		out = append(out, ElbowPoint{K: k, Inertia: r.Inertia})
	}
	return out, nil
}

// KRange returns 1..n inclusive.
func KRange(n int) []int {
	ks := make([]int, 0, n)
	for k := 1; k <= n; k++ {
		ks = append(ks, k)
	}
	return ks
}
