package cmd

import (
	"context"
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/leaguelens/internal/config"
	"github.com/KaramelBytes/leaguelens/internal/league"
	"github.com/KaramelBytes/leaguelens/internal/store"
	"github.com/spf13/cobra"
)

// tableFlags are the input flags shared by every command that reads a file.
type tableFlags struct {
	delimiter    string
	decimal      string
	thousands    string
	sheetName    string
	sheetIndex   int
	keepAverages bool
}

func (f *tableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default by extension)")
	cmd.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator: '.' | 'comma' (default auto)")
	cmd.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator: ',' | '.' | 'space'")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used when --sheet-name is empty)")
	cmd.Flags().BoolVar(&f.keepAverages, "keep-averages", false, "keep the League Average and blank team rows")
}

// options converts the flags into loader options. Config supplies the
// keep_averages default when the flag was not given.
func (f *tableFlags) options(cmd *cobra.Command, c *cfgpkg.Global) (league.Options, error) {
	opt := league.DefaultOptions()
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(f.thousands) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	if opt.DecimalSeparator != 0 && opt.DecimalSeparator == opt.ThousandsSeparator {
		return opt, fmt.Errorf("--decimal and --thousands cannot both be %q", opt.DecimalSeparator)
	}
	opt.SheetName = f.sheetName
	if f.sheetIndex > 0 {
		opt.SheetIndex = f.sheetIndex
	}
	if c != nil {
		opt.KeepAverages = c.KeepAverages
	}
	if cmd.Flags().Changed("keep-averages") {
		opt.KeepAverages = f.keepAverages
	}
	return opt, nil
}

// openStore opens the season archive named by db_path.
func openStore(c *cfgpkg.Global) (*store.Store, error) {
	st, err := store.Open(c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return st, nil
}

// loadTable reads path, or the archived season when path is empty.
func loadTable(ctx context.Context, c *cfgpkg.Global, path, season string, opt league.Options) (*league.Table, error) {
	if path != "" {
		return league.Load(path, opt)
	}
	if season == "" {
		return nil, fmt.Errorf("a file or --season is required")
	}
	st, err := openStore(c)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.LoadSeason(ctx, season, opt)
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
