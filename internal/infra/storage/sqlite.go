package storage

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
	zlog "github.com/rs/zerolog/log"
)

// SQLite is a Store backed by a single-table SQLite database.
// It is safe for concurrent use because *sql.DB is concurrency-safe.
type SQLite struct {
	conn *sql.DB

	getStmt    *sql.Stmt
	setStmt    *sql.Stmt
	deleteStmt *sql.Stmt
}

// NewSQLite opens (or creates) the database at path and ensures the kv
// table exists. Caller should Close() it when finished.
func NewSQLite(path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", path+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// SQLite works better with few connections
	conn.SetMaxOpenConns(2)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=memory;",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			zlog.Warn().Err(err).Msgf("storage: failed to set pragma %s", pragma)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		);`
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to create kv table")
	}

	s := &SQLite{conn: conn}
	if err := s.prepareStatements(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) prepareStatements() error {
	var err error

	s.getStmt, err = s.conn.Prepare("SELECT value FROM kv WHERE key = ?")
	if err != nil {
		return errors.Wrap(err, "failed to prepare get statement")
	}
	s.setStmt, err = s.conn.Prepare(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		return errors.Wrap(err, "failed to prepare set statement")
	}
	s.deleteStmt, err = s.conn.Prepare("DELETE FROM kv WHERE key = ?")
	if err != nil {
		return errors.Wrap(err, "failed to prepare delete statement")
	}
	return nil
}

// Get returns the value for key.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.getStmt.QueryRowContext(ctx, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get value")
	}
	return value, true, nil
}

// Set stores value under key, overwriting any previous value.
func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.setStmt.ExecContext(ctx, key, value); err != nil {
		return errors.Wrap(err, "failed to set value")
	}
	return nil
}

// Delete removes key.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.deleteStmt.ExecContext(ctx, key); err != nil {
		return errors.Wrap(err, "failed to delete value")
	}
	return nil
}

// Close closes the prepared statements and the database connection.
func (s *SQLite) Close() error {
	for _, stmt := range []*sql.Stmt{s.getStmt, s.setStmt, s.deleteStmt} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	return s.conn.Close()
}
