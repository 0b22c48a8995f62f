// Package storage provides SQLite-based persistence for race results and
// the coin wallet. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// RaceResult is one finished race.
type RaceResult struct {
	ID        string // KSUID, sorts by creation time
	GameID    string
	Placement int
	Seconds   float64
	Pickups   int
	Laps      int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS race_results (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			placement INTEGER NOT NULL,
			seconds REAL NOT NULL,
			pickups INTEGER NOT NULL DEFAULT 0,
			laps INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_race_results_game_id ON race_results(game_id);
		CREATE INDEX IF NOT EXISTS idx_race_results_top ON race_results(game_id, placement, seconds);

		CREATE TABLE IF NOT EXISTS wallet (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			coins INTEGER NOT NULL DEFAULT 0
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished race and returns its ID.
func (s *Store) SaveResult(r RaceResult) (string, error) {
	id := ksuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO race_results (id, game_id, placement, seconds, pickups, laps) VALUES (?, ?, ?, ?, ?, ?)",
		id, r.GameID, r.Placement, r.Seconds, r.Pickups, r.Laps,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save result: %w", err)
	}
	return id, nil
}

// TopResults retrieves the best N results for the given track:
// better placement first, then faster time.
func (s *Store) TopResults(gameID string, limit int) ([]RaceResult, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryResults(
		`SELECT id, game_id, placement, seconds, pickups, laps, created_at
		 FROM race_results
		 WHERE game_id = ?
		 ORDER BY placement ASC, seconds ASC
		 LIMIT ?`,
		gameID, limit,
	)
}

// RecentResults retrieves the latest N results for the given track, newest first.
func (s *Store) RecentResults(gameID string, limit int) ([]RaceResult, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryResults(
		`SELECT id, game_id, placement, seconds, pickups, laps, created_at
		 FROM race_results
		 WHERE game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		gameID, limit,
	)
}

func (s *Store) queryResults(query string, args ...any) ([]RaceResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []RaceResult
	for rows.Next() {
		var r RaceResult
		var createdAt any
		if err := rows.Scan(&r.ID, &r.GameID, &r.Placement, &r.Seconds, &r.Pickups, &r.Laps, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			r.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				r.CreatedAt = parsed
			}
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// BestTime returns the fastest winning time for the given track.
// ok is false if the track has never been won.
func (s *Store) BestTime(gameID string) (seconds float64, ok bool, err error) {
	var best sql.NullFloat64
	err = s.db.QueryRow(
		"SELECT MIN(seconds) FROM race_results WHERE game_id = ? AND placement = 1",
		gameID,
	).Scan(&best)
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best time: %w", err)
	}
	if !best.Valid {
		return 0, false, nil
	}
	return best.Float64, true, nil
}

// ClearResults deletes all results for the given track.
func (s *Store) ClearResults(gameID string) error {
	_, err := s.db.Exec("DELETE FROM race_results WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// AddCoins credits the wallet and returns the new balance.
// Negative amounts spend coins; the balance never drops below zero.
func (s *Store) AddCoins(n int) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot update wallet: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT OR IGNORE INTO wallet (id, coins) VALUES (1, 0)"); err != nil {
		return 0, fmt.Errorf("storage: cannot update wallet: %w", err)
	}
	if _, err := tx.Exec("UPDATE wallet SET coins = MAX(coins + ?, 0) WHERE id = 1", n); err != nil {
		return 0, fmt.Errorf("storage: cannot update wallet: %w", err)
	}

	var coins int
	if err := tx.QueryRow("SELECT coins FROM wallet WHERE id = 1").Scan(&coins); err != nil {
		return 0, fmt.Errorf("storage: cannot query wallet: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot update wallet: %w", err)
	}
	return coins, nil
}

// Coins returns the wallet balance.
func (s *Store) Coins() (int, error) {
	var coins int
	err := s.db.QueryRow("SELECT coins FROM wallet WHERE id = 1").Scan(&coins)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query wallet: %w", err)
	}
	return coins, nil
}
