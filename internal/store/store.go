// Package store archives season tables in a local SQLite database so they
// can be explored later by season name.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/leaguelens/internal/league"
)

// ErrSeasonNotFound is returned when no season has the requested name.
var ErrSeasonNotFound = errors.New("season not found")

// Store is a SQLite-backed season archive.
type Store struct {
	db   *sql.DB
	path string
}

// SeasonInfo describes an archived season.
type SeasonInfo struct {
	Name       string
	Source     string
	Teams      int
	ImportedAt time.Time
}

// Open opens (creating if needed) the archive at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	// a single writer keeps sqlite from reporting SQLITE_BUSY
	db.SetMaxOpenConns(1)
	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS seasons (
		name TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		columns TEXT NOT NULL,
		imported_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS season_rows (
		season TEXT NOT NULL REFERENCES seasons(name) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		cells TEXT NOT NULL,
		PRIMARY KEY (season, idx)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create archive schema: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// SaveSeason stores t under name, replacing any season with that name.
func (s *Store) SaveSeason(ctx context.Context, name string, t *league.Table) error {
	if name == "" {
		return errors.New("season name is required")
	}
	cols, err := json.Marshal(t.Columns)
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM season_rows WHERE season = ?`, name); err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO seasons (name, source, columns, imported_at) VALUES (?, ?, ?, ?)`,
		name, t.Name, string(cols), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("insert season: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO season_rows (season, idx, cells) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare rows: %w", err)
	}
	defer stmt.Close()
	for i, row := range t.Rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, name, i, string(cells)); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadSeason rebuilds the archived table. Rows were cleaned on import, so
// they are kept as stored.
func (s *Store) LoadSeason(ctx context.Context, name string, opt league.Options) (*league.Table, error) {
	var colsJSON string
	err := s.db.QueryRowContext(ctx, `SELECT columns FROM seasons WHERE name = ?`, name).Scan(&colsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSeasonNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query season: %w", err)
	}
	var header []string
	if err := json.Unmarshal([]byte(colsJSON), &header); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT cells FROM season_rows WHERE season = ? ORDER BY idx`, name)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()
	var records [][]string
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var rec []string
		if err := json.Unmarshal([]byte(cells), &rec); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	opt.KeepAverages = true
	return league.NewTable(name, header, records, opt)
}

// ListSeasons returns archived seasons ordered by name.
func (s *Store) ListSeasons(ctx context.Context) ([]SeasonInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.name, s.source, s.imported_at, COUNT(r.idx)
		FROM seasons s LEFT JOIN season_rows r ON r.season = s.name
		GROUP BY s.name ORDER BY s.name`)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer rows.Close()
	var out []SeasonInfo
	for rows.Next() {
		var si SeasonInfo
		var ms int64
		if err := rows.Scan(&si.Name, &si.Source, &ms, &si.Teams); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		si.ImportedAt = time.UnixMilli(ms)
		out = append(out, si)
	}
	return out, rows.Err()
}

// DeleteSeason removes a season and its rows.
func (s *Store) DeleteSeason(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM season_rows WHERE season = ?`, name); err != nil {
		return fmt.Errorf("delete rows: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM seasons WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSeasonNotFound, name)
	}
	return tx.Commit()
}
