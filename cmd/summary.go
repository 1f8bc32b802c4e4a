package cmd

import (
	"fmt"

	"github.com/KaramelBytes/leaguelens/internal/explore"
	"github.com/KaramelBytes/leaguelens/internal/termui"
	"github.com/KaramelBytes/leaguelens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	sumOutputPath string
	sumPretty     bool
	sumSeason     string
	sumWidth      int
	sumInput      tableFlags
)

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Print a Markdown report of a season without writing charts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadedConfig()
		if err != nil {
			return err
		}
		opt, err := sumInput.options(cmd, c)
		if err != nil {
			return err
		}
		p, err := exploreParams(cmd, c, opt)
		if err != nil {
			return err
		}
		t, err := loadTable(cmd.Context(), c, argOrEmpty(args), sumSeason, opt)
		if err != nil {
			return err
		}
		p.Table = t
		a, err := explore.Analyze(p)
		if err != nil {
			return err
		}
		md := explore.BuildReport(p, a).Markdown()

		if sumOutputPath != "" {
			if err := utils.SafeWriteFile(sumOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", sumOutputPath)
			return nil
		}
		if sumPretty {
			style := ""
			if c != nil {
				style = c.GlamourStyle
			}
			out, err := termui.RenderMarkdown(md, style, sumWidth)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	f := summaryCmd.Flags()
	f.StringVarP(&sumOutputPath, "output", "o", "", "write the Markdown summary to a file")
	f.BoolVar(&sumPretty, "pretty", false, "render the summary for the terminal")
	f.IntVar(&sumWidth, "width", 100, "word wrap width for --pretty")
	f.StringVar(&sumSeason, "season", "", "archived season name to summarize when no file is given")
	// shared with explore so the same clustering settings apply
	f.IntVar(&expMaxK, "max-k", 0, "elbow curve covers k = 1..max-k-1")
	f.IntVar(&expClusters, "clusters", 0, "k for the highlighted clustering")
	f.IntVar(&expGridMaxK, "grid-max", 0, "largest k in the clustering sweep")
	f.IntVar(&expIterations, "iterations", 0, "k-means iterations")
	f.BoolVar(&expScale, "scale", false, "standardize features before clustering")
	sumInput.register(summaryCmd)
}
