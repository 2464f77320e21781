package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// ErrNoState is returned by LoadState before anything was saved
var ErrNoState = errors.New("no saved state")

// Storage is the local SQLite database
type Storage struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and migrates it
func New(dbPath string) (*Storage, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "create db dir")
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping db")
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS app_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			payload TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS state_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			payload TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sent_alerts (
			alert_key TEXT PRIMARY KEY,
			sent_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_state_history_created_at ON state_history(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return errors.Wrap(err, "exec migration")
		}
	}
	return nil
}

// === State ===

// LoadState returns the saved state document
func (s *Storage) LoadState(ctx context.Context) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM app_state WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, errors.Wrap(err, "load state")
	}
	return []byte(payload), nil
}

// SaveState replaces the state document and appends the previous one to
// the history
func (s *Storage) SaveState(ctx context.Context, payload []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO state_history (payload) SELECT payload FROM app_state WHERE id = 1`,
	); err != nil {
		return errors.Wrap(err, "archive state")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO app_state (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(payload), time.Now().UTC(),
	); err != nil {
		return errors.Wrap(err, "save state")
	}

	return errors.Wrap(tx.Commit(), "commit state")
}

// PruneHistory keeps only the newest keep archived states
func (s *Storage) PruneHistory(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM state_history WHERE id NOT IN (SELECT id FROM state_history ORDER BY id DESC LIMIT ?)`,
		keep,
	)
	if err != nil {
		return 0, errors.Wrap(err, "prune history")
	}
	return res.RowsAffected()
}

// === Alerts ===

// AlertSent reports whether key was already recorded
func (s *Storage) AlertSent(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sent_alerts WHERE alert_key = ?`, key).Scan(&n)
	if err != nil {
		return false, errors.Wrap(err, "check alert")
	}
	return n > 0, nil
}

// MarkAlertSent records key and reports whether it was new
func (s *Storage) MarkAlertSent(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO sent_alerts (alert_key) VALUES (?)`, key)
	if err != nil {
		return false, errors.Wrap(err, "mark alert")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "mark alert")
	}
	return n == 1, nil
}
