// Package explore runs the fixed season exploration sequence: descriptive
// scatter and bar charts, correlations between special-teams and results
// metrics, and the k-means clustering walk over PP% and PK%.
package explore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/KaramelBytes/leaguelens/internal/charts"
	"github.com/KaramelBytes/leaguelens/internal/cluster"
	"github.com/KaramelBytes/leaguelens/internal/league"
	"github.com/KaramelBytes/leaguelens/internal/report"
	"github.com/KaramelBytes/leaguelens/internal/stats"
	"github.com/KaramelBytes/leaguelens/internal/utils"
)

// Artifact file names, in execution order.
const (
	FileGoals     = "01_goals_for_vs_against.html"
	FileWinLoss   = "02_win_loss.html"
	FilePPvsPK    = "03_pp_vs_pk.html"
	FilePPvsWins  = "04_pp_vs_wins.html"
	FileAgeVsWins = "05_age_vs_wins.html"
	FileElbow     = "06_elbow.html"
	FileKMeans    = "07_kmeans.html"
	FileGrid      = "08_kmeans_grid.html"
	FileSummary   = "summary.md"
)

// scalingColumns are standardized together; clustering uses the last two.
var scalingColumns = []string{
	league.ColWins, league.ColGoalsFor, league.ColGoalsAgainst,
	league.ColPowerplayPct, league.ColPenaltyKillPct,
}

// ClusterFeatures are the columns k-means groups teams by.
var ClusterFeatures = []string{league.ColPowerplayPct, league.ColPenaltyKillPct}

// Params configures one exploration run.
type Params struct {
	Table       *league.Table
	LoadOptions league.Options
	OutDir      string
	// MaxK bounds the elbow curve: k = 1 .. MaxK-1.
	MaxK int
	// Clusters is the k used for the highlighted grouping.
	Clusters int
	// GridMaxK is the largest k in the comparison grid (1..GridMaxK).
	GridMaxK   int
	Scale      bool
	Iterations int
	Size       charts.Size
	PanelSize  charts.Size
	Logger     *zap.Logger
}

// DefaultParams returns the settings of the reference exploration.
func DefaultParams() Params {
	return Params{
		LoadOptions: league.DefaultOptions(),
		OutDir:      "charts",
		MaxK:        10,
		Clusters:    3,
		GridMaxK:    5,
		Scale:       false,
		Iterations:  cluster.DefaultIterations,
		Size:        charts.DefaultSize,
		PanelSize:   charts.Size{Width: "400px", Height: "400px"},
	}
}

// Result bundles the persisted manifest and the in-memory report.
type Result struct {
	Manifest *Manifest
	Report   *report.Report
	Season   *league.Season
}

// Analysis holds the numbers of a run before anything is rendered.
type Analysis struct {
	Season       *league.Season
	Correlations []stats.Pair
	Features     [][]float64
	Elbow        []cluster.ElbowPoint
	Chosen       *cluster.Result
	Sweep        []*cluster.Result
}

// Analyze computes correlations and clusterings without writing files.
func Analyze(p Params) (*Analysis, error) {
	if p.Table == nil {
		return nil, errors.New("explore: no table")
	}
	log := p.logger()
	season, err := p.Table.Season(p.LoadOptions)
	if err != nil {
		return nil, err
	}
	a := &Analysis{Season: season}

	pairs := []struct {
		x, y   string
		xs, ys []float64
	}{
		{league.ColPowerplayPct, league.ColPenaltyKillPct, season.PowerplayPct, season.PenaltyKillPct},
		{league.ColPowerplayPct, league.ColWins, season.PowerplayPct, season.Wins},
		{league.ColAverageAge, league.ColWins, season.AverageAge, season.Wins},
	}
	for _, pr := range pairs {
		c, err := stats.Correlate(pr.x, pr.y, pr.xs, pr.ys)
		if err != nil {
			return nil, fmt.Errorf("correlate %s and %s: %w", pr.x, pr.y, err)
		}
		a.Correlations = append(a.Correlations, c)
		log.Debug("correlation", zap.String("x", pr.x), zap.String("y", pr.y),
			zap.Float64("r", c.R), zap.Bool("undefined", c.Undefined))
	}

	a.Features, err = featureMatrix(p.Table, p.LoadOptions, p.Scale)
	if err != nil {
		return nil, err
	}
	copt := cluster.Options{Iterations: p.Iterations, Logger: log}
	if a.Elbow, err = cluster.Elbow(a.Features, p.maxK(), copt); err != nil {
		return nil, err
	}
	if a.Chosen, err = cluster.Fit(a.Features, min(p.clusters(), len(a.Features)), copt); err != nil {
		return nil, err
	}
	if a.Sweep, err = cluster.Sweep(a.Features, cluster.KRange(min(p.gridMaxK(), len(a.Features))), copt); err != nil {
		return nil, err
	}
	return a, nil
}

// featureMatrix returns per-team (PP%, PK%), standardized alongside W, GF
// and GA when scale is set.
func featureMatrix(t *league.Table, opt league.Options, scale bool) ([][]float64, error) {
	m, err := t.Matrix(opt, scalingColumns...)
	if err != nil {
		return nil, err
	}
	if scale {
		m = stats.StandardizeColumns(m)
	}
	off := len(scalingColumns) - len(ClusterFeatures)
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row[off:]...)
	}
	return out, nil
}

type job struct {
	art    Artifact
	render func() (charts.Renderer, error)
}

// Run executes the full sequence and writes every chart, summary.md and
// manifest.json into p.OutDir.
func Run(ctx context.Context, p Params) (*Result, error) {
	log := p.logger()
	a, err := Analyze(p)
	if err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(p.OutDir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	s := a.Season
	man := NewManifest(p.Table.Name, p.OutDir)
	man.Teams = len(s.Teams)
	man.Scaled = p.Scale
	man.Correlations = a.Correlations
	man.Elbow = a.Elbow
	man.Clusters = a.Chosen.K
	man.ClusterSizes = a.Chosen.Sizes

	jobs := buildJobs(p, a)
	g, gctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := j.render()
			if err != nil {
				return err
			}
			if err := charts.WriteHTML(filepath.Join(p.OutDir, j.art.File), r); err != nil {
				return err
			}
			log.Debug("chart written", zap.String("file", j.art.File))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}
	for _, j := range jobs {
		man.Artifacts = append(man.Artifacts, j.art)
	}

	rep := BuildReport(p, a)
	if err := utils.SafeWriteFile(filepath.Join(p.OutDir, FileSummary), []byte(rep.Markdown())); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	man.Artifacts = append(man.Artifacts, Artifact{Name: "summary", File: FileSummary, Title: "Season summary"})
	if err := man.Save(); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	log.Info("exploration complete",
		zap.String("run_id", man.RunID),
		zap.String("out_dir", p.OutDir),
		zap.Int("artifacts", len(man.Artifacts)))
	return &Result{Manifest: man, Report: rep, Season: s}, nil
}

func buildJobs(p Params, a *Analysis) []job {
	s := a.Season
	corr := func(i int) *float64 { r := a.Correlations[i].Value(); return &r }
	scatter := func(name, file, title, xl, yl, color string, x, y []float64, r *float64) job {
		return job{
			art: Artifact{Name: name, File: file, Title: title},
			render: func() (charts.Renderer, error) {
				return charts.Scatter(charts.ScatterSpec{
					Title: title, XLabel: xl, YLabel: yl, Color: color,
					Labels: s.Teams, X: x, Y: y, Correlation: r, Size: p.Size,
				})
			},
		}
	}
	kTitle := fmt.Sprintf("K-Means Clustering (k=%d)", a.Chosen.K)
	return []job{
		scatter("goals", FileGoals, "Goals For vs Goals Against", "Goals For", "Goals Against", "purple",
			s.GoalsFor, s.GoalsAgainst, nil),
		{
			art: Artifact{Name: "win_loss", File: FileWinLoss, Title: "Win-Loss Record for Each Team"},
			render: func() (charts.Renderer, error) {
				return charts.WinLoss(s.Teams, s.Wins, s.Losses, p.Size)
			},
		},
		scatter("pp_vs_pk", FilePPvsPK, "Correlation between Powerplay Percentage and Penalty Kill Percentage",
			"Powerplay Percentage", "Penalty Kill Percentage", "red", s.PowerplayPct, s.PenaltyKillPct, corr(0)),
		scatter("pp_vs_wins", FilePPvsWins, "Correlation between Powerplay Percentage and Wins",
			"Powerplay Percentage", "Wins", "purple", s.PowerplayPct, s.Wins, corr(1)),
		scatter("age_vs_wins", FileAgeVsWins, "Correlation between Average Age and Wins",
			"Average Age", "Wins", "cyan", s.AverageAge, s.Wins, corr(2)),
		{
			art: Artifact{Name: "elbow", File: FileElbow, Title: "Elbow Method"},
			render: func() (charts.Renderer, error) {
				pts := make([]charts.ElbowPoint, len(a.Elbow))
				for i, e := range a.Elbow {
					pts[i] = charts.ElbowPoint{K: e.K, Inertia: e.Inertia}
				}
				return charts.Elbow(pts, p.Size), nil
			},
		},
		{
			art: Artifact{Name: "kmeans", File: FileKMeans, Title: kTitle},
			render: func() (charts.Renderer, error) {
				return charts.Clusters(charts.ClusterSpec{
					Title: kTitle, XLabel: "Powerplay %", YLabel: "Penalty Kill %",
					Labels: s.Teams, X: s.PowerplayPct, Y: s.PenaltyKillPct, Groups: a.Chosen.Labels, Size: p.Size,
				})
			},
		},
		{
			art: Artifact{Name: "kmeans_grid", File: FileGrid, Title: "K-Means comparison grid"},
			render: func() (charts.Renderer, error) {
				panels := make([]components.Charter, 0, len(a.Sweep))
				for _, res := range a.Sweep {
					sc, err := charts.Clusters(charts.ClusterSpec{
						Title: fmt.Sprintf("N Clusters: %d", res.K), XLabel: "Powerplay %", YLabel: "Penalty Kill %",
						Labels: s.Teams, X: s.PowerplayPct, Y: s.PenaltyKillPct, Groups: res.Labels, Size: p.PanelSize,
					})
					if err != nil {
						return nil, err
					}
					panels = append(panels, sc)
				}
				return charts.Grid(panels...), nil
			},
		},
	}
}

// BuildReport assembles the Markdown report for an analysis.
func BuildReport(p Params, a *Analysis) *report.Report {
	s := a.Season
	rep := &report.Report{
		Name:         s.Name,
		Teams:        s.Teams,
		Correlations: a.Correlations,
		Elbow:        a.Elbow,
		Clustering:   &report.Clustering{Features: ClusterFeatures, Scaled: p.Scale, Result: a.Chosen},
	}
	for _, m := range []struct {
		name string
		vals []float64
	}{
		{league.ColPoints, s.Points},
		{league.ColGoalsFor, s.GoalsFor},
		{league.ColGoalsAgainst, s.GoalsAgainst},
		{league.ColWins, s.Wins},
		{league.ColLosses, s.Losses},
		{league.ColOvertimeLosses, s.OvertimeLosses},
		{league.ColPowerplayPct, s.PowerplayPct},
		{league.ColPenaltyKillPct, s.PenaltyKillPct},
		{league.ColAverageAge, s.AverageAge},
	} {
		rep.Metrics = append(rep.Metrics, stats.Summarize(m.name, m.vals))
	}
	if t := p.Table; t != nil {
		rep.Columns = league.ExploreColumns
		cols := make([][]string, len(rep.Columns))
		for j, c := range rep.Columns {
			cols[j], _ = t.Strings(c)
		}
		for i := 0; i < t.Len(); i++ {
			row := make([]string, len(cols))
			for j, vals := range cols {
				if i < len(vals) {
					row[j] = vals[i]
				}
			}
			rep.Standings = append(rep.Standings, row)
		}
	}
	if len(s.Teams) < p.maxK() {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("elbow curve limited to %d teams", len(s.Teams)))
	}
	return rep
}

func (p Params) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p Params) maxK() int {
	if p.MaxK < 2 {
		return 10
	}
	return p.MaxK
}

func (p Params) clusters() int {
	if p.Clusters < 1 {
		return 3
	}
	return p.Clusters
}

func (p Params) gridMaxK() int {
	if p.GridMaxK < 1 {
		return 5
	}
	return p.GridMaxK
}
