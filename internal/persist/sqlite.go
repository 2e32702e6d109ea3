package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abelbrown/dailybugle/internal/news"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// SQLite keeps records in a single kv table.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SQLite struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenSQLite opens (or creates) the database at dbPath.
// Uses WAL mode for file-based DBs; ":memory:" gets a single shared connection.
func OpenSQLite(dbPath string) (*SQLite, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &SQLite{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLite) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Load reads the state record. found is false if it was never saved.
func (s *SQLite) Load() (news.State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", StateKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return news.State{}, false, nil
	}
	if err != nil {
		return news.State{}, false, fmt.Errorf("query state: %w", err)
	}

	state, err := Decode([]byte(value))
	if err != nil {
		return news.State{}, true, err
	}
	return state, true, nil
}

// Save upserts the state record.
func (s *SQLite) Save(state news.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, StateKey, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Clear deletes the state record.
func (s *SQLite) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", StateKey); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}

// UpdatedAt returns when the record was last written.
func (s *SQLite) UpdatedAt() (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ts time.Time
	err := s.db.QueryRow("SELECT updated_at FROM kv WHERE key = ?", StateKey).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query updated_at: %w", err)
	}
	return ts, true, nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
