package preference

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists preference state to a SQLite database, one row per
// session. The row holds the serialized State so the bounded-memory rules
// live in one place (Observe).
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS preferences (
        session_id TEXT PRIMARY KEY,
        updated_at INTEGER,
        state TEXT
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, sessionID)
}

func (s *SQLiteStore) Record(ctx context.Context, sessionID string, rec SessionRecord) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.load(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	next := Observe(cur, rec.StartHour, rec)
	b, err := json.Marshal(next)
	if err != nil {
		return State{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO preferences(session_id, updated_at, state) VALUES(?, ?, ?)
         ON CONFLICT(session_id) DO UPDATE SET updated_at=excluded.updated_at, state=excluded.state`,
		sessionID, rec.CompletedAt.Unix(), string(b))
	if err != nil {
		return State{}, err
	}
	return next, nil
}

func (s *SQLiteStore) load(ctx context.Context, sessionID string) (State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM preferences WHERE session_id = ?`, sessionID).Scan(&raw)
	if err == sql.ErrNoRows {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, fmt.Errorf("decode state for %s: %w", sessionID, err)
	}
	return st, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
