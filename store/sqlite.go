package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goudachat/chatrelay/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS stream_events (
			event_id TEXT PRIMARY KEY,
			stream_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stream_events_session ON stream_events(session_id, ts)`,
		`CREATE INDEX IF NOT EXISTS idx_stream_events_stream ON stream_events(stream_id, ts)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// CreateEvent inserts a stream event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.StreamEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stream_events (event_id, stream_id, session_id, ts, type, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		event.EventID, event.StreamID, event.SessionID, event.Ts, event.Type, nullableJSON(event.Payload),
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetEvents returns events for a session ordered by timestamp, optionally
// filtered by type and bounded by afterTs/limit.
func (s *SQLiteStore) GetEvents(ctx context.Context, sessionID string, afterTs int64, types []string, limit int) ([]domain.StreamEvent, error) {
	query := `SELECT event_id, stream_id, session_id, ts, type, COALESCE(payload, '') FROM stream_events WHERE session_id = ? AND ts > ?`
	args := []interface{}{sessionID, afterTs}

	if len(types) > 0 {
		placeholders := strings.Repeat("?,", len(types))
		query += fmt.Sprintf(" AND type IN (%s)", strings.TrimSuffix(placeholders, ","))
		for _, t := range types {
			args = append(args, t)
		}
	}

	query += " ORDER BY ts ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []domain.StreamEvent
	for rows.Next() {
		var e domain.StreamEvent
		var payload string
		if err := rows.Scan(&e.EventID, &e.StreamID, &e.SessionID, &e.Ts, &e.Type, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if payload != "" {
			e.Payload = []byte(payload)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
