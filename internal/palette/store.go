// Package palette stores named colors in a SQLite database.
package palette

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
)

// ErrNotFound is returned when no color is stored under a name.
var ErrNotFound = errors.New("color not found")

// Entry is a stored color.
type Entry struct {
	CreatedAt time.Time
	Name      string
	Hex       string
}

// Color returns the entry's color.
func (e Entry) Color() colorspace.RGB {
	c, _ := colorspace.HexToRGB(e.Hex)
	return c
}

// Store is a palette database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens the palette at path, creating the database and schema if they
// don't exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, path: path, now: time.Now}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS colors (
			name TEXT PRIMARY KEY,
			hex TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Save stores text under name. text may be in any of the three notations;
// it is stored as canonical hex. Saving an existing name replaces its color.
func (s *Store) Save(ctx context.Context, name, text string) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, fmt.Errorf("color name must not be empty")
	}

	c, _, err := colorspace.ParseAny(text)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to save %q: %w", name, err)
	}

	e := Entry{Name: name, Hex: colorspace.RGBToHex(c)}

	// A replaced color keeps its first created_at.
	var created int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO colors (name, hex, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET hex = excluded.hex
		 RETURNING created_at`,
		e.Name, e.Hex, s.now().Unix(),
	).Scan(&created)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to insert color %q: %w", name, err)
	}
	e.CreatedAt = time.Unix(created, 0)
	return e, nil
}

// Get returns the color stored under name.
func (s *Store) Get(ctx context.Context, name string) (Entry, error) {
	var (
		e       Entry
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT name, hex, created_at FROM colors WHERE name = ?", name,
	).Scan(&e.Name, &e.Hex, &created)

	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to query color: %w", err)
	}
	e.CreatedAt = time.Unix(created, 0)
	return e, nil
}

// List returns all colors sorted by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, hex, created_at FROM colors ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query colors: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.Name, &e.Hex, &created); err != nil {
			return nil, fmt.Errorf("failed to scan color row: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating colors: %w", err)
	}
	return entries, nil
}

// Delete removes the color stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM colors WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete color: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete color: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
