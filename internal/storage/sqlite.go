package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	_ "github.com/mattn/go-sqlite3"
)

const stateRowID = 1

//go:embed migrations/*.sql
var schemaFiles embed.FS

// SQLiteBlobStore keeps the state blob in a single-row table. The whole day is
// still the unit of persistence; SQLite only provides the durable transport.
type SQLiteBlobStore struct {
	db *sql.DB
}

func NewSQLiteBlobStore(db *sql.DB) (*SQLiteBlobStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteBlobStore{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteBlobStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	store, err := NewSQLiteBlobStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteBlobStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteBlobStore) ReadBlob() ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM day_state WHERE id = ?`, stateRowID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read state row: %w", err)
	}
	return payload, nil
}

func (s *SQLiteBlobStore) WriteBlob(data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO day_state (id, payload) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`,
		stateRowID, data,
	)
	if err != nil {
		return fmt.Errorf("storage: write state row: %w", err)
	}
	return nil
}

// Quarantine copies the unreadable blob into a side table before it gets
// overwritten by a fresh day.
func (s *SQLiteBlobStore) Quarantine() error {
	_, err := s.db.Exec(`
		INSERT INTO day_state_quarantine (payload, quarantined_at)
		SELECT payload, CURRENT_TIMESTAMP FROM day_state WHERE id = ?`,
		stateRowID,
	)
	if err != nil {
		return fmt.Errorf("storage: quarantine state row: %w", err)
	}
	return nil
}

// ensureSchema applies the embedded up migrations in lexical order. The
// scripts are idempotent, so reopening an existing database is safe.
func ensureSchema(db *sql.DB) error {
	return runMigrations(db, ".up.sql")
}

// dropSchema reverses the migrations, newest first. Tests use it to keep the
// down scripts in sync with the up scripts.
func dropSchema(db *sql.DB) error {
	return runMigrations(db, ".down.sql")
}

func runMigrations(db *sql.DB, suffix string) error {
	names, err := fs.Glob(schemaFiles, "migrations/*"+suffix)
	if err != nil {
		return fmt.Errorf("storage: list migrations: %w", err)
	}
	sort.Strings(names)
	if suffix == ".down.sql" {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}
	for _, name := range names {
		script, err := schemaFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("storage: read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("storage: apply migration %s: %w", name, err)
		}
	}
	return nil
}
