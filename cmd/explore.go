package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/KaramelBytes/leaguelens/internal/charts"
	cfgpkg "github.com/KaramelBytes/leaguelens/internal/config"
	"github.com/KaramelBytes/leaguelens/internal/explore"
	"github.com/KaramelBytes/leaguelens/internal/league"
	"github.com/KaramelBytes/leaguelens/internal/termui"
	"github.com/KaramelBytes/leaguelens/internal/utils"
	"github.com/KaramelBytes/leaguelens/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	expOutDir     string
	expMaxK       int
	expClusters   int
	expGridMaxK   int
	expIterations int
	expScale      bool
	expQuiet      bool
	expWatch      bool
	expSeason     string
	expInput      tableFlags
)

var exploreCmd = &cobra.Command{
	Use:   "explore [file]",
	Short: "Run the full season exploration and write the charts",
	Long: `Loads a season standings file, prints the cleaned table and writes, in order:
goals for vs against, win-loss record, PP% vs PK%, PP% vs wins, average age
vs wins, the k-means elbow curve, the chosen clustering and a grid comparing
k = 1..grid-max. A summary.md and manifest.json are written next to the charts.

With --season and no file, the season is read from the archive. With both,
the file is archived under that name before exploring.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadedConfig()
		if err != nil {
			return err
		}
		path := argOrEmpty(args)
		if path == "" && expSeason == "" {
			return fmt.Errorf("a file or --season is required")
		}
		if expWatch && path == "" {
			return fmt.Errorf("--watch needs a file")
		}
		opt, err := expInput.options(cmd, c)
		if err != nil {
			return err
		}
		p, err := exploreParams(cmd, c, opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		runOnce := func(ctx context.Context) error {
			t, err := loadTable(ctx, c, path, expSeason, opt)
			if err != nil {
				return err
			}
			if path != "" && expSeason != "" {
				if err := archiveTable(ctx, c, expSeason, t); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Archived %s as season %q\n", t.Name, expSeason)
			}
			p.Table = t
			return runExplore(ctx, out, p, expQuiet)
		}

		if err := runOnce(ctx); err != nil {
			return err
		}
		if !expWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", path)
		debounce := time.Duration(c.WatchDebounceMs) * time.Millisecond
		return watch.Watch(ctx, path, debounce, logger, func(ctx context.Context) error {
			if err := runOnce(ctx); err != nil {
				// a half-saved file should not end the session
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %v\n", err)
				logger.Debug("rerun failed", zap.Error(err))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	f := exploreCmd.Flags()
	f.StringVarP(&expOutDir, "output", "o", "", "directory for charts, summary.md and manifest.json (default from config)")
	f.IntVar(&expMaxK, "max-k", 0, "elbow curve covers k = 1..max-k-1")
	f.IntVar(&expClusters, "clusters", 0, "k for the highlighted clustering")
	f.IntVar(&expGridMaxK, "grid-max", 0, "largest k in the comparison grid")
	f.IntVar(&expIterations, "iterations", 0, "k-means iterations")
	f.BoolVar(&expScale, "scale", false, "standardize W, GF, GA, PP% and PK% before clustering")
	f.BoolVar(&expQuiet, "quiet", false, "do not print the table and correlations")
	f.BoolVar(&expWatch, "watch", false, "re-run whenever the file changes")
	f.StringVar(&expSeason, "season", "", "archived season name to load (or to archive the file under)")
	expInput.register(exploreCmd)
}

// exploreParams layers config then changed flags over the defaults.
func exploreParams(cmd *cobra.Command, c *cfgpkg.Global, opt league.Options) (explore.Params, error) {
	p := explore.DefaultParams()
	p.LoadOptions = opt
	p.Logger = logger
	if c != nil {
		if c.OutputDir != "" {
			p.OutDir = c.OutputDir
		}
		if c.MaxK > 0 {
			p.MaxK = c.MaxK
		}
		if c.Clusters > 0 {
			p.Clusters = c.Clusters
		}
		if c.GridMaxK > 0 {
			p.GridMaxK = c.GridMaxK
		}
		if c.KMeansIterations > 0 {
			p.Iterations = c.KMeansIterations
		}
		p.Scale = c.ScaleFeatures
		p.Size = sizeOr(c.ChartWidth, c.ChartHeight, p.Size)
		p.PanelSize = sizeOr(c.PanelWidth, c.PanelHeight, p.PanelSize)
	}
	f := cmd.Flags()
	if f.Changed("output") {
		p.OutDir = expOutDir
	}
	if f.Changed("max-k") {
		p.MaxK = expMaxK
	}
	if f.Changed("clusters") {
		p.Clusters = expClusters
	}
	if f.Changed("grid-max") {
		p.GridMaxK = expGridMaxK
	}
	if f.Changed("iterations") {
		p.Iterations = expIterations
	}
	if f.Changed("scale") {
		p.Scale = expScale
	}
	switch {
	case p.MaxK < 2:
		return p, fmt.Errorf("--max-k must be at least 2, got %d", p.MaxK)
	case p.Clusters < 1:
		return p, fmt.Errorf("--clusters must be at least 1, got %d", p.Clusters)
	case p.GridMaxK < 1:
		return p, fmt.Errorf("--grid-max must be at least 1, got %d", p.GridMaxK)
	case p.Iterations < 1:
		return p, fmt.Errorf("--iterations must be at least 1, got %d", p.Iterations)
	}
	dir, err := utils.ExpandHome(p.OutDir)
	if err != nil {
		return p, err
	}
	p.OutDir = dir
	return p, nil
}

func sizeOr(w, h string, def charts.Size) charts.Size {
	if w != "" {
		def.Width = w
	}
	if h != "" {
		def.Height = h
	}
	return def
}

// runExplore prints the table, runs the pipeline and lists what was written.
func runExplore(ctx context.Context, out io.Writer, p explore.Params, quiet bool) error {
	if !quiet {
		tbl, err := termui.RenderTable(p.Table, league.ExploreColumns...)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, tbl)
	}
	res, err := explore.Run(ctx, p)
	if err != nil {
		return err
	}
	if !quiet {
		for _, pr := range res.Report.Correlations {
			fmt.Fprintf(out, "%s ~ %s: %s\n", pr.X, pr.Y, charts.CorrelationText(pr.Value()))
		}
	}
	for _, a := range res.Manifest.Artifacts {
		fmt.Fprintf(out, "✓ %s: %s\n", a.Title, res.Manifest.Path(a))
	}
	for _, w := range res.Report.Warnings {
		fmt.Fprintf(out, "⚠ %s\n", w)
	}
	fmt.Fprintf(out, "✓ Run %s complete (%d teams, k=%d)\n", res.Manifest.RunID, res.Manifest.Teams, res.Manifest.Clusters)
	return nil
}
