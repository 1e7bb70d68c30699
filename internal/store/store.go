// Package store persists the user's session profile: topic preferences and
// verification history. It is the local stand-in for the browser-storage
// collaborator the orchestration core is written against - the core itself
// never touches it. No durability guarantees beyond SQLite's own.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"truthlens/internal/logging"
	"truthlens/internal/types"
)

// SessionStore keeps profile data in a local SQLite database.
type SessionStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open initializes the SQLite database at the given path, creating the
// parent directory and tables as needed.
func Open(path string) (*SessionStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SessionStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SessionStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS verification_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_type TEXT NOT NULL,
		verdict TEXT NOT NULL,
		confidence INTEGER NOT NULL,
		result TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_history_created ON verification_history(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}

// SaveTopics replaces the persisted topic preferences.
func (s *SessionStore) SaveTopics(topics []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(topics)
	if err != nil {
		return fmt.Errorf("failed to encode topics: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO preferences (key, value, updated_at) VALUES ('topics', ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save topics: %w", err)
	}
	logging.Store("saved %d topic preferences", len(topics))
	return nil
}

// LoadTopics returns the persisted topic preferences, or nil when the user
// has never saved any.
func (s *SessionStore) LoadTopics() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = 'topics'`).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}

	var topics []string
	if err := json.Unmarshal([]byte(raw), &topics); err != nil {
		return nil, fmt.Errorf("failed to decode topics: %w", err)
	}
	return topics, nil
}

// AppendHistory records one verification result.
func (s *SessionStore) AppendHistory(result *types.VerificationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO verification_history (analysis_type, verdict, confidence, result, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(result.AnalysisType), string(result.Verdict), result.Confidence, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	logging.Store("history appended: %s %s", result.AnalysisType, result.Verdict)
	return nil
}

// History returns the most recent verification results, newest first.
func (s *SessionStore) History(limit int) ([]types.VerificationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT result FROM verification_history ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []types.VerificationResult
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		var result types.VerificationResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			logging.StoreError("skipping undecodable history row: %v", err)
			continue
		}
		out = append(out, result)
	}
	return out, rows.Err()
}
