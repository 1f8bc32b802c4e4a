// Package charts builds the interactive HTML charts for season exploration
// with go-echarts. Every point carries its team name so hovering shows it.
package charts

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Renderer is anything that renders itself as an HTML document.
type Renderer interface {
	Render(w io.Writer) error
}

// Size is the chart canvas size in CSS units.
type Size struct {
	Width  string
	Height string
}

// DefaultSize matches a wide single-figure layout.
var DefaultSize = Size{Width: "1200px", Height: "600px"}

func (s Size) orDefault() Size {
	if s.Width == "" {
		s.Width = DefaultSize.Width
	}
	if s.Height == "" {
		s.Height = DefaultSize.Height
	}
	return s
}

// ScatterSpec describes a labeled two-metric scatter plot.
type ScatterSpec struct {
	Title  string
	XLabel string
	YLabel string
	Color  string
	Labels []string
	X, Y   []float64
	// Correlation, when set, is shown under the title.
	Correlation *float64
	Size        Size
}

// CorrelationText formats a coefficient the way charts annotate it. NaN
// (a constant series) reads "n/a".
func CorrelationText(r float64) string {
	if math.IsNaN(r) {
		return "Correlation coefficient: n/a"
	}
	return fmt.Sprintf("Correlation coefficient: %.2f", r)
}

// Scatter builds a single-series scatter with per-point hover labels.
func Scatter(spec ScatterSpec) (*charts.Scatter, error) {
	if len(spec.X) != len(spec.Y) || len(spec.Labels) != len(spec.X) {
		return nil, fmt.Errorf("scatter %q: %d labels, %d x, %d y", spec.Title, len(spec.Labels), len(spec.X), len(spec.Y))
	}
	title := opts.Title{Title: spec.Title}
	if spec.Correlation != nil {
		title.Subtitle = CorrelationText(*spec.Correlation)
	}
	sc := charts.NewScatter()
	sc.SetGlobalOptions(append(baseOptions(spec.Size, spec.XLabel, spec.YLabel),
		charts.WithTitleOpts(title),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(false)}),
	)...)
	sc.AddSeries(spec.Title, scatterPoints(spec.Labels, spec.X, spec.Y),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: spec.Color}))
	return sc, nil
}

// WinLoss builds a horizontal stacked bar of wins and losses per team. The
// first team is drawn at the top.
func WinLoss(teams []string, wins, losses []float64, size Size) (*charts.Bar, error) {
	if len(wins) != len(teams) || len(losses) != len(teams) {
		return nil, fmt.Errorf("win-loss: %d teams, %d wins, %d losses", len(teams), len(wins), len(losses))
	}
	n := len(teams)
	cats := make([]string, n)
	winData := make([]opts.BarData, n)
	lossData := make([]opts.BarData, n)
	// category axes grow upward once reversed, so feed them bottom-first
	for i := 0; i < n; i++ {
		j := n - 1 - i
		cats[i] = teams[j]
		winData[i] = opts.BarData{Name: teams[j], Value: wins[j]}
		lossData[i] = opts.BarData{Name: teams[j], Value: losses[j]}
	}
	size = size.orDefault()
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: "Win-Loss Record for Each Team"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Number of Games", Type: "value"}),
	)
	bar.SetXAxis(cats).
		AddSeries("Wins", winData,
			charts.WithBarChartOpts(opts.BarChart{Stack: "record"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "green"})).
		AddSeries("Losses", lossData,
			charts.WithBarChartOpts(opts.BarChart{Stack: "record"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}))
	bar.XYReversal()
	return bar, nil
}

// ElbowPoint is one k/inertia pair on the elbow curve.
type ElbowPoint struct {
	K       int
	Inertia float64
}

// Elbow builds the inertia-by-cluster-count line chart.
func Elbow(points []ElbowPoint, size Size) *charts.Line {
	ks := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		ks[i] = fmt.Sprint(p.K)
		data[i] = opts.LineData{Name: ks[i], Value: p.Inertia}
	}
	size = size.orDefault()
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: "Elbow Method"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Number of Clusters", SplitLine: &opts.SplitLine{Show: boolPtr(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Inertia", SplitLine: &opts.SplitLine{Show: boolPtr(true)}}),
	)
	line.SetXAxis(ks).AddSeries("Inertia", data)
	return line
}

// ClusterSpec describes a scatter colored by cluster label.
type ClusterSpec struct {
	Title  string
	XLabel string
	YLabel string
	Labels []string
	X, Y   []float64
	Groups []int
	Size   Size
}

// Clusters builds one scatter series per cluster label.
func Clusters(spec ClusterSpec) (*charts.Scatter, error) {
	n := len(spec.X)
	if len(spec.Y) != n || len(spec.Labels) != n || len(spec.Groups) != n {
		return nil, fmt.Errorf("clusters %q: %d labels, %d x, %d y, %d groups", spec.Title, len(spec.Labels), n, len(spec.Y), len(spec.Groups))
	}
	k := 0
	for _, g := range spec.Groups {
		if g+1 > k {
			k = g + 1
		}
	}
	series := make([][]opts.ScatterData, k)
	for i := 0; i < n; i++ {
		g := spec.Groups[i]
		if g < 0 {
			continue
		}
		series[g] = append(series[g], opts.ScatterData{Name: spec.Labels[i], Value: []interface{}{spec.X[i], spec.Y[i]}})
	}
	sc := charts.NewScatter()
	sc.SetGlobalOptions(append(baseOptions(spec.Size, spec.XLabel, spec.YLabel),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(true)}),
	)...)
	for g, pts := range series {
		sc.AddSeries(fmt.Sprintf("Cluster %d", g), pts)
	}
	return sc, nil
}

// Grid lays several charts out on one page, side by side.
func Grid(panels ...components.Charter) *components.Page {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(panels...)
	return page
}

// WriteHTML renders r into path atomically.
func WriteHTML(path string, r Renderer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir chart dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".chart-*.html")
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := r.Render(tmp); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close chart file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

func baseOptions(size Size, xLabel, yLabel string) []charts.GlobalOpts {
	size = size.orDefault()
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true), Trigger: "item", Formatter: "{b}"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      xLabel,
			Type:      "value",
			Min:       "dataMin",
			Max:       "dataMax",
			SplitLine: &opts.SplitLine{Show: boolPtr(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      yLabel,
			Type:      "value",
			Min:       "dataMin",
			Max:       "dataMax",
			SplitLine: &opts.SplitLine{Show: boolPtr(true)},
		}),
	}
}

func scatterPoints(labels []string, x, y []float64) []opts.ScatterData {
	out := make([]opts.ScatterData, len(x))
	for i := range x {
		out[i] = opts.ScatterData{Name: labels[i], Value: []interface{}{x[i], y[i]}}
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
