// Package prefs persists per-player display preferences: which attribute
// columns are shown and whether directional hints are on.
package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/robalobadob/hsr-guess/assets"
)

// Prefs is what the adapter restores when a player starts a session.
type Prefs struct {
	Columns []string `json:"columns"`
	Hints   bool     `json:"hints"`
}

// Store reads and writes Prefs keyed by player ID.
type Store struct{ db *sql.DB }

// Open opens the SQLite file at path and applies the embedded migrations.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(assets.Migrations, "sql")
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db, sub); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Load returns the stored prefs for playerID. found is false when the player
// has never saved anything.
func (s *Store) Load(ctx context.Context, playerID string) (p Prefs, found bool, err error) {
	var cols string
	var hints int
	err = s.db.QueryRowContext(ctx,
		`SELECT columns, hints FROM preferences WHERE player_id=?`, playerID,
	).Scan(&cols, &hints)
	if errors.Is(err, sql.ErrNoRows) {
		return Prefs{}, false, nil
	}
	if err != nil {
		return Prefs{}, false, err
	}
	if err := json.Unmarshal([]byte(cols), &p.Columns); err != nil {
		return Prefs{}, false, fmt.Errorf("decode columns: %w", err)
	}
	p.Hints = hints != 0
	return p, true, nil
}

// Save upserts the prefs for playerID.
func (s *Store) Save(ctx context.Context, playerID string, p Prefs) error {
	cols := p.Columns
	if cols == nil {
		cols = []string{}
	}
	b, err := json.Marshal(cols)
	if err != nil {
		return err
	}
	hints := 0
	if p.Hints {
		hints = 1
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO preferences (player_id, columns, hints, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(player_id) DO UPDATE SET
            columns=excluded.columns, hints=excluded.hints, updated_at=excluded.updated_at`,
		playerID, string(b), hints, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
