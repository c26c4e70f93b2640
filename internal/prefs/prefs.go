// Package prefs persists UI preferences and a capped history of prior
// requests in a local sqlite file. Everything here is best-effort: callers
// log failures and carry on, and an absent or broken file reads as first-run
// state.
package prefs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

const maxRequestHistory = 50

// Setting keys.
const (
	KeyLastAccount      = "last_account"
	KeyLastFunctionName = "last_function_name"
	KeyWebhookURL       = "webhook_url"
)

// RequestEntry is one remembered request.
type RequestEntry struct {
	ID           string    `db:"id"`
	AccountID    string    `db:"account_id"`
	FunctionName string    `db:"function_name"`
	Text         string    `db:"text"`
	Timestamp    time.Time `db:"timestamp"`
}

// Store is the local preference store.
type Store struct {
	db *sqlx.DB
}

// New opens (or creates) the preference database at the given path.
func New(file string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", file)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences db: %w", err)
	}

	createTables := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS request_history (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		function_name TEXT NOT NULL,
		text TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(createTables); err != nil {
		return nil, fmt.Errorf("failed to create preference tables: %w", err)
	}

	return &Store{db: db}, nil
}

// ReadSetting returns the stored value for key, or "" when absent.
func (s *Store) ReadSetting(key string) string {
	var value string
	if err := s.db.Get(&value, "SELECT value FROM settings WHERE key = ?", key); err != nil {
		return ""
	}
	return value
}

// WriteSetting stores a value under key, replacing any previous one.
func (s *Store) WriteSetting(key, value string) error {
	if _, err := s.db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}

	slog.Debug("setting written",
		slog.String("key", key),
	)
	return nil
}

// AppendRequest records one sent request and trims the history to the most
// recent entries.
func (s *Store) AppendRequest(accountID, functionName, text string) error {
	entry := RequestEntry{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		FunctionName: functionName,
		Text:         text,
		Timestamp:    time.Now(),
	}

	insertQuery := "INSERT INTO request_history (id, account_id, function_name, text, timestamp) VALUES (?, ?, ?, ?, ?)"
	if _, err := s.db.Exec(insertQuery, entry.ID, entry.AccountID, entry.FunctionName, entry.Text, entry.Timestamp); err != nil {
		return fmt.Errorf("failed to insert request entry: %w", err)
	}

	trimQuery := `
	DELETE FROM request_history WHERE id NOT IN (
		SELECT id FROM request_history ORDER BY timestamp DESC LIMIT ?
	)`
	if _, err := s.db.Exec(trimQuery, maxRequestHistory); err != nil {
		return fmt.Errorf("failed to trim request history: %w", err)
	}

	slog.Debug("request recorded",
		slog.String("account_id", entry.AccountID),
		slog.String("function_name", entry.FunctionName),
	)
	return nil
}

// ReadRequests returns the remembered requests, newest first.
func (s *Store) ReadRequests() ([]RequestEntry, error) {
	var entries []RequestEntry
	err := s.db.Select(&entries, "SELECT id, account_id, function_name, text, timestamp FROM request_history ORDER BY timestamp DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to read request history: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
