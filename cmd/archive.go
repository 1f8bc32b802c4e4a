package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	cfgpkg "github.com/KaramelBytes/leaguelens/internal/config"
	"github.com/KaramelBytes/leaguelens/internal/league"
	"github.com/KaramelBytes/leaguelens/internal/store"
	"github.com/spf13/cobra"
)

var (
	arcSeason string
	arcInput  tableFlags
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage archived seasons",
}

var archiveImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a standings file into the season archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadedConfig()
		if err != nil {
			return err
		}
		opt, err := arcInput.options(cmd, c)
		if err != nil {
			return err
		}
		t, err := league.Load(args[0], opt)
		if err != nil {
			return err
		}
		name := arcSeason
		if name == "" {
			base := filepath.Base(args[0])
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		if err := archiveTable(cmd.Context(), c, name, t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Archived %d teams from %s as season %q\n", t.Len(), t.Name, name)
		return nil
	},
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived seasons",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadedConfig()
		if err != nil {
			return err
		}
		st, err := openStore(c)
		if err != nil {
			return err
		}
		defer st.Close()
		seasons, err := st.ListSeasons(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(seasons) == 0 {
			fmt.Fprintln(out, "No archived seasons")
			return nil
		}
		for _, s := range seasons {
			fmt.Fprintf(out, "- %s (%d teams, from %s, %s)\n", s.Name, s.Teams, s.Source, s.ImportedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var archiveRmCmd = &cobra.Command{
	Use:   "rm <season>",
	Short: "Remove an archived season",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadedConfig()
		if err != nil {
			return err
		}
		st, err := openStore(c)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.DeleteSeason(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, store.ErrSeasonNotFound) {
				return fmt.Errorf("%w (see 'leaguelens archive list')", err)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed season %q\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveImportCmd)
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveRmCmd)
	archiveImportCmd.Flags().StringVar(&arcSeason, "season", "", "season name (default: file name without extension)")
	arcInput.register(archiveImportCmd)
}

// archiveTable stores t under name, replacing an existing season.
func archiveTable(ctx context.Context, c *cfgpkg.Global, name string, t *league.Table) error {
	st, err := openStore(c)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.SaveSeason(ctx, name, t); err != nil {
		return fmt.Errorf("archive %s: %w", name, err)
	}
	return nil
}
