// Package stats holds the descriptive statistics used by season exploration:
// column summaries, Pearson correlation and z-score standardization.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrLengthMismatch is returned when paired series differ in length.
	ErrLengthMismatch = errors.New("series length mismatch")
	// ErrTooFewValues is returned when a statistic needs more observations.
	ErrTooFewValues = errors.New("too few values")
)

// Summary describes one numeric column.
type Summary struct {
	Name  string
	Count int
	Min   float64
	Max   float64
	Mean  float64
	Std   float64 // sample standard deviation
}

// Summarize computes count, extrema, mean and sample std.
func Summarize(name string, values []float64) Summary {
	s := Summary{Name: name, Count: len(values)}
	if s.Count == 0 {
		return s
	}
	s.Min, s.Max = floats.Min(values), floats.Max(values)
	if s.Count == 1 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	return s
}

// Constant reports whether every value equals the first.
func Constant(values []float64) bool {
	for _, v := range values[min(1, len(values)):] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Pearson returns the Pearson correlation coefficient of x and y. A
// constant series has no defined coefficient and yields 0; use Correlate to
// tell that case apart.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("pearson: %w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return 0, fmt.Errorf("pearson: %w: need at least 2, got %d", ErrTooFewValues, len(x))
	}
	if Constant(x) || Constant(y) {
		return 0, nil
	}
	r := stat.Correlation(x, y, nil)
	switch {
	case math.IsNaN(r) || math.IsInf(r, 0):
		return 0, nil
	case r > 1:
		return 1, nil
	case r < -1:
		return -1, nil
	}
	return r, nil
}

// Pair names a correlation computed between two columns. Undefined marks a
// constant series, for which R is 0.
type Pair struct {
	X         string  `json:"x"`
	Y         string  `json:"y"`
	R         float64 `json:"r"`
	Undefined bool    `json:"undefined,omitempty"`
}

// Correlate computes the named pair.
func Correlate(xName, yName string, x, y []float64) (Pair, error) {
	r, err := Pearson(x, y)
	if err != nil {
		return Pair{}, err
	}
	return Pair{X: xName, Y: yName, R: r, Undefined: Constant(x) || Constant(y)}, nil
}

// Value is R, or NaN when the coefficient is undefined.
func (p Pair) Value() float64 {
	if p.Undefined {
		return math.NaN()
	}
	return p.R
}

// Standardize returns (x - mean) / std using the population standard
// deviation. A constant series maps to zeros.
func Standardize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return out
	}
	for i, v := range values {
		out[i] = stat.StdScore(v, mean, std)
	}
	return out
}

// StandardizeColumns standardizes each column of a row-major matrix
// independently.
func StandardizeColumns(points [][]float64) [][]float64 {
	if len(points) == 0 {
		return nil
	}
	dims := len(points[0])
	out := make([][]float64, len(points))
	for i := range out {
		out[i] = make([]float64, dims)
	}
	col := make([]float64, len(points))
	for j := 0; j < dims; j++ {
		for i, p := range points {
			col[i] = p[j]
		}
		for i, z := range Standardize(col) {
			out[i][j] = z
		}
	}
	return out
}
