package cmd

import (
	"fmt"

	"github.com/KaramelBytes/leaguelens/internal/league"
	"github.com/KaramelBytes/leaguelens/internal/termui"
	"github.com/spf13/cobra"
)

var (
	teamsSeason string
	teamsAll    bool
	teamsInput  tableFlags
)

var teamsCmd = &cobra.Command{
	Use:   "teams [file]",
	Short: "Print the cleaned standings table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadedConfig()
		if err != nil {
			return err
		}
		opt, err := teamsInput.options(cmd, c)
		if err != nil {
			return err
		}
		t, err := loadTable(cmd.Context(), c, argOrEmpty(args), teamsSeason, opt)
		if err != nil {
			return err
		}
		var cols []string
		if !teamsAll {
			// the exploration columns, when the file has them
			if err := t.Require(league.ExploreColumns...); err == nil {
				cols = league.ExploreColumns
			}
		}
		out, err := termui.RenderTable(t, cols...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teamsCmd)
	teamsCmd.Flags().StringVar(&teamsSeason, "season", "", "archived season name to print when no file is given")
	teamsCmd.Flags().BoolVar(&teamsAll, "all", false, "print every column of the file")
	teamsInput.register(teamsCmd)
}
