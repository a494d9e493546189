package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "tickerdash/internal/errors"
)

// migrations are applied in order; PRAGMA user_version records how many
// have run.
var migrations = []string{
	`CREATE TABLE auth_token (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		token      TEXT NOT NULL,
		saved_at   TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE dashboard_sync (
		variant    TEXT PRIMARY KEY,
		synced_at  TIMESTAMP NOT NULL
	)`,
}

// SQLiteStore keeps the token and per-variant sync times in a single-file
// SQLite database. The token table holds at most one row.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at dbPath and brings its
// schema up to date.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, dbError("open", err)
	}
	// One writer at a time is plenty for a CLI.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, dbError("migrate", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	for i := version; i < len(migrations); i++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func dbError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", apperrors.ErrDatabaseError, op, err)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get implements SessionStore.
func (s *SQLiteStore) Get() (string, bool, error) {
	var token string
	switch err := s.db.QueryRow(`SELECT token FROM auth_token WHERE id = 1`).Scan(&token); {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, dbError("read token", err)
	}
	return token, token != "", nil
}

// Set implements SessionStore.
func (s *SQLiteStore) Set(token string) error {
	_, err := s.db.Exec(`INSERT INTO auth_token (id, token, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, saved_at = excluded.saved_at`,
		token, time.Now().UTC())
	if err != nil {
		return dbError("save token", err)
	}
	return nil
}

// Clear implements SessionStore.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM auth_token`); err != nil {
		return dbError("clear token", err)
	}
	return nil
}

// GetLastSync returns the zero time when variant has never loaded or the
// row cannot be read.
func (s *SQLiteStore) GetLastSync(variant string) time.Time {
	var t time.Time
	if err := s.db.QueryRow(`SELECT synced_at FROM dashboard_sync WHERE variant = ?`, variant).Scan(&t); err != nil {
		return time.Time{}
	}
	return t
}

// SetLastSync implements SyncRecorder.
func (s *SQLiteStore) SetLastSync(variant string, t time.Time) error {
	_, err := s.db.Exec(`INSERT INTO dashboard_sync (variant, synced_at) VALUES (?, ?)
		ON CONFLICT(variant) DO UPDATE SET synced_at = excluded.synced_at`, variant, t.UTC())
	if err != nil {
		return dbError("record sync", err)
	}
	return nil
}
