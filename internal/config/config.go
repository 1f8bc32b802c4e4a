package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	OutputDir        string `mapstructure:"output_dir" yaml:"output_dir"`
	MaxK             int    `mapstructure:"max_k" yaml:"max_k"`
	Clusters         int    `mapstructure:"clusters" yaml:"clusters"`
	GridMaxK         int    `mapstructure:"grid_max_k" yaml:"grid_max_k"`
	KMeansIterations int    `mapstructure:"kmeans_iterations" yaml:"kmeans_iterations"`
	ScaleFeatures    bool   `mapstructure:"scale_features" yaml:"scale_features"`
	KeepAverages     bool   `mapstructure:"keep_averages" yaml:"keep_averages"`

	// Chart canvas
	ChartWidth  string `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight string `mapstructure:"chart_height" yaml:"chart_height"`
	PanelWidth  string `mapstructure:"panel_width" yaml:"panel_width"`
	PanelHeight string `mapstructure:"panel_height" yaml:"panel_height"`

	// Season archive
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	WatchDebounceMs int    `mapstructure:"watch_debounce_ms" yaml:"watch_debounce_ms"`
	GlamourStyle    string `mapstructure:"glamour_style" yaml:"glamour_style"`
}

// Dir returns the default configuration directory, ~/.leaguelens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".leaguelens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.leaguelens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("LEAGUELENS")
	v.AutomaticEnv()

	v.SetDefault("output_dir", "charts")
	v.SetDefault("max_k", 10)
	v.SetDefault("clusters", 3)
	v.SetDefault("grid_max_k", 5)
	v.SetDefault("kmeans_iterations", 300)
	v.SetDefault("scale_features", false)
	v.SetDefault("keep_averages", false)
	v.SetDefault("chart_width", "1200px")
	v.SetDefault("chart_height", "600px")
	v.SetDefault("panel_width", "400px")
	v.SetDefault("panel_height", "400px")
	v.SetDefault("db_path", "")
	v.SetDefault("watch_debounce_ms", 300)
	v.SetDefault("glamour_style", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// optional file; only a malformed one is an error
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve db_path default: ~/.leaguelens/seasons.db
	if c.DBPath == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.DBPath = filepath.Join(dir, "seasons.db")
	}
	return &c, nil
}
