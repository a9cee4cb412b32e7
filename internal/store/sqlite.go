package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/paip/internal/model"
)

var _ model.HistoryStore = (*SQLiteStore)(nil)

// SQLiteStore keeps the invocation history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// history table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS history (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at    INTEGER NOT NULL,
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		prompt_name   TEXT    NOT NULL DEFAULT '',
		prompt_chars  INTEGER NOT NULL DEFAULT 0,
		response      TEXT    NOT NULL DEFAULT '',
		error_kind    TEXT    NOT NULL DEFAULT '',
		error_message TEXT    NOT NULL DEFAULT '',
		elapsed_ms    INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record inserts e and returns its ID. A zero CreatedAt is set to now.
func (s *SQLiteStore) Record(e model.Entry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO history (created_at, provider, model, prompt_name, prompt_chars, response, error_kind, error_message, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CreatedAt.UnixMilli(), e.Provider, e.Model, e.PromptName, e.PromptChars,
		e.Response, e.ErrorKind, e.Error, e.Elapsed.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("recording history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading history entry id: %w", err)
	}
	return id, nil
}

const selectColumns = `SELECT id, created_at, provider, model, prompt_name, prompt_chars, response, error_kind, error_message, elapsed_ms FROM history`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (model.Entry, error) {
	var (
		e         model.Entry
		createdMs int64
		elapsedMs int64
	)
	err := row.Scan(&e.ID, &createdMs, &e.Provider, &e.Model, &e.PromptName, &e.PromptChars,
		&e.Response, &e.ErrorKind, &e.Error, &elapsedMs)
	if err != nil {
		return model.Entry{}, err
	}
	e.CreatedAt = time.UnixMilli(createdMs)
	e.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStore) Recent(limit int) ([]model.Entry, error) {
	rows, err := s.db.Query(selectColumns+" ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given ID, or model.ErrNotFound.
func (s *SQLiteStore) Get(id int64) (model.Entry, error) {
	e, err := scanEntry(s.db.QueryRow(selectColumns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, fmt.Errorf("entry %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Entry{}, fmt.Errorf("reading history entry %d: %w", id, err)
	}
	return e, nil
}

// Cleanup deletes entries older than the given duration and returns how many
// were removed.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UnixMilli()
	res, err := s.db.Exec("DELETE FROM history WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up history older than %v: %w", olderThan, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting removed history entries: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
