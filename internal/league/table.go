package league

import (
	"errors"
	"fmt"
	"strings"
)

// Column names used by sports-reference season standings exports.
const (
	ColTeam           = "Team"
	ColPoints         = "PTS"
	ColGoalsFor       = "GF"
	ColGoalsAgainst   = "GA"
	ColWins           = "W"
	ColLosses         = "L"
	ColOvertimeLosses = "OL"
	ColPowerplayPct   = "PP%"
	ColPenaltyKillPct = "PK%"
	ColAverageAge     = "AvAge"
)

// ExploreColumns are the columns the exploration pipeline reads.
var ExploreColumns = []string{
	ColTeam, ColPoints, ColGoalsFor, ColGoalsAgainst, ColWins, ColLosses,
	ColOvertimeLosses, ColPowerplayPct, ColPenaltyKillPct, ColAverageAge,
}

const averageRowLabel = "League Average"

var (
	// ErrMissingColumns is returned when a table lacks columns a caller needs.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrNoTeams is returned when a source has a header but no team rows.
	ErrNoTeams = errors.New("no team rows")
)

// Table is one season's standings table with team names cleaned.
type Table struct {
	Name    string
	Columns []string
	Teams   []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a Table from a header and raw records. Team names have
// every '*' removed and, unless opt.KeepAverages is set, blank rows and the
// league average row are dropped.
func NewTable(name string, header []string, records [][]string, opt Options) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%s: empty header", name)
	}
	t := &Table{Name: name, index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(h)
		t.Columns = append(t.Columns, h)
		if _, dup := t.index[h]; !dup && h != "" {
			t.index[h] = i
		}
	}
	teamCol := opt.TeamColumn
	if teamCol == "" {
		teamCol = ColTeam
	}
	ti, ok := t.index[teamCol]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", name, ErrMissingColumns, teamCol)
	}
	ncol := len(header)
	for _, rec := range records {
		row := make([]string, ncol)
		copy(row, rec)
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		team := strings.TrimSpace(strings.ReplaceAll(row[ti], "*", ""))
		if !opt.KeepAverages && (team == "" || strings.EqualFold(team, averageRowLabel)) {
			continue
		}
		row[ti] = team
		t.Teams = append(t.Teams, team)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Len returns the number of team rows.
func (t *Table) Len() int { return len(t.Rows) }

// Has reports whether the table has a column with the given name.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Require returns ErrMissingColumns naming every column that is absent.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w: %s", t.Name, ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// Strings returns the raw values of a column.
func (t *Table) Strings(col string) ([]string, error) {
	idx, ok := t.index[col]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", t.Name, ErrMissingColumns, col)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Float parses a numeric column. Any blank or non-numeric cell is an error
// naming the team and column.
func (t *Table) Float(col string, opt Options) ([]float64, error) {
	raw, err := t.Strings(col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		x, ok := parseNumeric(v, opt)
		if !ok {
			return nil, fmt.Errorf("%s: row %d (%s): column %s: not a number: %q", t.Name, i+1, t.Teams[i], col, v)
		}
		out[i] = x
	}
	return out, nil
}

// Matrix returns one point per team built from the given numeric columns.
func (t *Table) Matrix(opt Options, cols ...string) ([][]float64, error) {
	series := make([][]float64, len(cols))
	for j, c := range cols {
		vals, err := t.Float(c, opt)
		if err != nil {
			return nil, err
		}
		series[j] = vals
	}
	points := make([][]float64, t.Len())
	for i := range points {
		p := make([]float64, len(cols))
		for j := range cols {
			p[j] = series[j][i]
		}
		points[i] = p
	}
	return points, nil
}

// Season is the typed view of the columns used by the exploration pipeline.
type Season struct {
	Name           string
	Teams          []string
	Points         []float64
	GoalsFor       []float64
	GoalsAgainst   []float64
	Wins           []float64
	Losses         []float64
	OvertimeLosses []float64
	PowerplayPct   []float64
	PenaltyKillPct []float64
	AverageAge     []float64
}

// Season extracts the exploration columns, failing if any is missing or
// malformed.
func (t *Table) Season(opt Options) (*Season, error) {
	if err := t.Require(ExploreColumns...); err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", t.Name, ErrNoTeams)
	}
	s := &Season{Name: t.Name, Teams: append([]string(nil), t.Teams...)}
	targets := []struct {
		col string
		dst *[]float64
	}{
		{ColPoints, &s.Points},
		{ColGoalsFor, &s.GoalsFor},
		{ColGoalsAgainst, &s.GoalsAgainst},
		{ColWins, &s.Wins},
		{ColLosses, &s.Losses},
		{ColOvertimeLosses, &s.OvertimeLosses},
		{ColPowerplayPct, &s.PowerplayPct},
		{ColPenaltyKillPct, &s.PenaltyKillPct},
		{ColAverageAge, &s.AverageAge},
	}
	for _, tg := range targets {
		vals, err := t.Float(tg.col, opt)
		if err != nil {
			return nil, err
		}
		*tg.dst = vals
	}
	return s, nil
}
