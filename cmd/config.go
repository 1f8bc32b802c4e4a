package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/leaguelens/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set LeagueLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "max_k: %d\n", cfg.MaxK)
		fmt.Fprintf(out, "clusters: %d\n", cfg.Clusters)
		fmt.Fprintf(out, "grid_max_k: %d\n", cfg.GridMaxK)
		fmt.Fprintf(out, "kmeans_iterations: %d\n", cfg.KMeansIterations)
		fmt.Fprintf(out, "scale_features: %t\n", cfg.ScaleFeatures)
		fmt.Fprintf(out, "keep_averages: %t\n", cfg.KeepAverages)
		fmt.Fprintf(out, "chart_width: %s\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %s\n", cfg.ChartHeight)
		fmt.Fprintf(out, "panel_width: %s\n", cfg.PanelWidth)
		fmt.Fprintf(out, "panel_height: %s\n", cfg.PanelHeight)
		fmt.Fprintf(out, "db_path: %s\n", cfg.DBPath)
		fmt.Fprintf(out, "watch_debounce_ms: %d\n", cfg.WatchDebounceMs)
		if cfg.GlamourStyle != "" {
			fmt.Fprintf(out, "glamour_style: %s\n", cfg.GlamourStyle)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadedConfig()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	setInt := func(dst *int, lo int) error {
		i, err := strconv.Atoi(val)
		if err != nil || i < lo {
			return fmt.Errorf("invalid value for %s: %q (need an integer >= %d)", key, val, lo)
		}
		*dst = i
		return nil
	}
	switch key {
	case "output_dir":
		c.OutputDir = val
	case "max_k":
		return setInt(&c.MaxK, 2)
	case "clusters":
		return setInt(&c.Clusters, 1)
	case "grid_max_k":
		return setInt(&c.GridMaxK, 1)
	case "kmeans_iterations":
		return setInt(&c.KMeansIterations, 1)
	case "watch_debounce_ms":
		return setInt(&c.WatchDebounceMs, 0)
	case "scale_features", "keep_averages":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %q", key, val)
		}
		if key == "scale_features" {
			c.ScaleFeatures = b
		} else {
			c.KeepAverages = b
		}
	case "chart_width", "chart_height", "panel_width", "panel_height":
		if !strings.HasSuffix(val, "px") && !strings.HasSuffix(val, "%") {
			return fmt.Errorf("invalid size for %s: %q (use e.g. 900px or 100%%)", key, val)
		}
		switch key {
		case "chart_width":
			c.ChartWidth = val
		case "chart_height":
			c.ChartHeight = val
		case "panel_width":
			c.PanelWidth = val
		default:
			c.PanelHeight = val
		}
	case "db_path":
		c.DBPath = val
	case "glamour_style":
		c.GlamourStyle = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
