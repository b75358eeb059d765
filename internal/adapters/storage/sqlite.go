package storage

// sqlite.go — optional candle recorder.
//
// One row in `sessions` per simulator run, one row in `candles` per tick.
// Trades are not persisted. Old sessions are pruned on startup so an
// always-on desktop install does not grow a database forever.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/tradesim/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol     TEXT     NOT NULL,
    seed       INTEGER  NOT NULL DEFAULT 0,
    started_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS candles (
    session_id INTEGER NOT NULL REFERENCES sessions(id),
    seq        INTEGER NOT NULL,
    open       REAL    NOT NULL,
    high       REAL    NOT NULL,
    low        REAL    NOT NULL,
    close      REAL    NOT NULL,
    direction  TEXT    NOT NULL,
    created_at DATETIME NOT NULL,
    PRIMARY KEY (session_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_sessions_at ON sessions(started_at DESC);
`

// retentionSessions bounds how long finished sessions are kept.
const retentionSessions = 14 * 24 * time.Hour

// CandleStore implements ports.Recorder using SQLite (pure Go, no CGo).
type CandleStore struct {
	db        *sql.DB
	sessionID int64
}

// NewCandleStore opens (or creates) the database at the given path, prunes
// stale sessions and registers a new session row for this run.
func NewCandleStore(path, symbol string, seed int64) (*CandleStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewCandleStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewCandleStore: apply schema: %w", err)
	}

	s := &CandleStore{db: db}
	s.pruneOld(context.Background())

	res, err := db.Exec(
		`INSERT INTO sessions (symbol, seed, started_at) VALUES (?, ?, ?)`,
		symbol, seed, time.Now().UTC(),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewCandleStore: create session: %w", err)
	}
	s.sessionID, err = res.LastInsertId()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewCandleStore: session id: %w", err)
	}

	return s, nil
}

// RecordCandle stores the seq-th candle of the current session.
func (s *CandleStore) RecordCandle(ctx context.Context, seq int, c domain.Candle) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO candles (session_id, seq, open, high, low, close, direction, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.sessionID, seq, c.Open, c.High, c.Low, c.Close,
		c.Direction().String(), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("storage.RecordCandle: insert seq %d: %w", seq, err)
	}
	return nil
}

// History reads back the current session's candles in chronological order.
func (s *CandleStore) History(ctx context.Context) ([]domain.Candle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT open, high, low, close FROM candles WHERE session_id = ? ORDER BY seq`,
		s.sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage.History: query: %w", err)
	}
	defer rows.Close()

	var candles []domain.Candle
	for rows.Next() {
		var c domain.Candle
		if err := rows.Scan(&c.Open, &c.High, &c.Low, &c.Close); err != nil {
			return nil, fmt.Errorf("storage.History: scan: %w", err)
		}
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.History: rows: %w", err)
	}
	return candles, nil
}

// Close closes the database connection cleanly.
func (s *CandleStore) Close() error {
	return s.db.Close()
}

// pruneOld deletes sessions past retention together with their candles.
// Failures only cost disk space, so they are logged and ignored.
func (s *CandleStore) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionSessions)

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM candles WHERE session_id IN
		   (SELECT id FROM sessions WHERE started_at < ?)`, cutoff,
	); err != nil {
		slog.Warn("storage: prune candles failed", "err", err)
		return
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE started_at < ?`, cutoff,
	); err != nil {
		slog.Warn("storage: prune sessions failed", "err", err)
	}
}
