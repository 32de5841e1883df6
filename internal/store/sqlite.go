// internal/store/sqlite.go
//
// SQLite implementation of Store.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Plays (attempts kept as JSON) and daily results / leaderboard.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/guessityet/guessityet/assets"
	"github.com/guessityet/guessityet/internal/game"
)

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if missing) the database at path and migrates it.
func OpenSQLite(path string) (Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// openDB ensures the parent directory exists, then opens with busy timeout
// and WAL journaling.
func openDB(path string) (*sql.DB, error) {
	if !strings.HasPrefix(path, ":memory:") && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", path+sep+"_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// a single connection keeps :memory: databases shared and serialises writes
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies every embedded sql/*.sql file not yet listed in
// _migrations, each inside its own transaction.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	files, err := assets.Migrations()
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := assets.FS.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

func (s *sqliteStore) GetPlay(ctx context.Context, playerID, date string) (*game.Play, error) {
	var (
		p        = game.Play{PlayerID: playerID, Date: date}
		attempts string
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT game_id, max_attempts, current_attempt, won, lost, guessed_it, attempts_json, started_at
        FROM plays WHERE player_id=? AND date=?`, playerID, date,
	).Scan(&p.GameID, &p.MaxAttempts, &p.CurrentAttempt, &p.Won, &p.Lost, &p.GuessedIt, &attempts, &p.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(attempts), &p.Attempts); err != nil {
		return nil, fmt.Errorf("decode attempts: %w", err)
	}
	return &p, nil
}

func (s *sqliteStore) SavePlay(ctx context.Context, p *game.Play) error {
	attempts, err := json.Marshal(p.Attempts)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO plays
            (player_id, date, game_id, max_attempts, current_attempt, won, lost, guessed_it, attempts_json, started_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(player_id, date) DO UPDATE SET
            current_attempt=excluded.current_attempt,
            won=excluded.won,
            lost=excluded.lost,
            guessed_it=excluded.guessed_it,
            attempts_json=excluded.attempts_json,
            updated_at=excluded.updated_at`,
		p.PlayerID, p.Date, p.GameID, p.MaxAttempts, p.CurrentAttempt, p.Won, p.Lost, p.GuessedIt,
		string(attempts), p.StartedAt.UTC(), time.Now().UTC(),
	)
	return err
}

func (s *sqliteStore) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_results
            (player_id, date, game_id, attempts, guessed_it, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?)`,
		r.PlayerID, r.Date, r.GameID, r.Attempts, r.GuessedIt, r.ElapsedMs,
	)
	return err
}

func (s *sqliteStore) Leaderboard(ctx context.Context, date string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT player_id, attempts, guessed_it, elapsed_ms
        FROM daily_results
        WHERE date=?
        ORDER BY attempts ASC, elapsed_ms ASC, rowid ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Row, 0, limit)
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.PlayerID, &r.Attempts, &r.GuessedIt, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error { return s.db.Close() }
