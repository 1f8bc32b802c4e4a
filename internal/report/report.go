// Package report renders a season exploration as a compact Markdown summary.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/leaguelens/internal/cluster"
	"github.com/KaramelBytes/leaguelens/internal/stats"
)

// Report is a markdown-friendly summary of one season.
type Report struct {
	Name         string
	Teams        []string
	Metrics      []stats.Summary
	Correlations []stats.Pair
	Elbow        []cluster.ElbowPoint
	Clustering   *Clustering
	Standings    [][]string
	Columns      []string
	Warnings     []string
}

// Clustering describes the chosen k-means grouping.
type Clustering struct {
	Features []string
	Scaled   bool
	Result   *cluster.Result
}

// Members returns team names per cluster label.
func (c *Clustering) Members(teams []string) [][]string {
	if c == nil || c.Result == nil {
		return nil
	}
	out := make([][]string, len(c.Result.Centroids))
	for i, l := range c.Result.Labels {
		if i < len(teams) {
			out[l] = append(out[l], teams[i])
		}
	}
	return out
}

// StrongestPair returns the defined correlation with the largest |r|.
func (r *Report) StrongestPair() (stats.Pair, bool) {
	var pairs []stats.Pair
	for _, p := range r.Correlations {
		if !p.Undefined {
			pairs = append(pairs, p)
		}
	}
	if len(pairs) == 0 {
		return stats.Pair{}, false
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	return pairs[0], true
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[SEASON SUMMARY]\n")
	if r.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", r.Name)
	}
	fmt.Fprintf(&b, "Teams: %d\n", len(r.Teams))

	if len(r.Metrics) > 0 {
		b.WriteString("\n[METRICS]\n")
		for _, m := range r.Metrics {
			fmt.Fprintf(&b, "- %s: min %.4g, max %.4g, mean %.4g, std %.4g\n", m.Name, m.Min, m.Max, m.Mean, m.Std)
		}
	}

	if len(r.Correlations) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.Correlations {
			if p.Undefined {
				fmt.Fprintf(&b, "- %s ~ %s: r=n/a (constant series)\n", p.X, p.Y)
				continue
			}
			fmt.Fprintf(&b, "- %s ~ %s: r=%.3f (%s)\n", p.X, p.Y, p.R, strength(p.R))
		}
	}

	if len(r.Elbow) > 0 {
		b.WriteString("\n[ELBOW]\n")
		for i, e := range r.Elbow {
			fmt.Fprintf(&b, "- k=%d: inertia %.4g", e.K, e.Inertia)
			if i > 0 && r.Elbow[i-1].Inertia > 0 {
				drop := (r.Elbow[i-1].Inertia - e.Inertia) / r.Elbow[i-1].Inertia * 100
				fmt.Fprintf(&b, " (-%.1f%%)", drop)
			}
			b.WriteString("\n")
		}
	}

	if c := r.Clustering; c != nil && c.Result != nil {
		b.WriteString("\n[CLUSTERS]\n")
		scaled := "raw"
		if c.Scaled {
			scaled = "standardized"
		}
		fmt.Fprintf(&b, "Features: %s (%s), k=%d, inertia %.4g\n", strings.Join(c.Features, ", "), scaled, c.Result.K, c.Result.Inertia)
		for l, members := range c.Members(r.Teams) {
			fmt.Fprintf(&b, "- Cluster %d (n=%d): %s\n", l, len(members), safeVal(strings.Join(members, ", ")))
		}
	}

	if len(r.Standings) > 0 && len(r.Columns) > 0 {
		b.WriteString("\n[STANDINGS]\n")
		b.WriteString("| ")
		for i, c := range r.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c))
		}
		b.WriteString(" |\n|")
		for range r.Columns {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range r.Standings {
			b.WriteString("| ")
			for i := range r.Columns {
				if i > 0 {
					b.WriteString(" | ")
				}
				if i < len(row) {
					b.WriteString(safeVal(row[i]))
				}
			}
			b.WriteString(" |\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// strength buckets |r| into a word.
func strength(r float64) string {
	a := math.Abs(r)
	switch {
	case a >= 0.7:
		return "strong"
	case a >= 0.4:
		return "moderate"
	case a >= 0.2:
		return "weak"
	default:
		return "negligible"
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
