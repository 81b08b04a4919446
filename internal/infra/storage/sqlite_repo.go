package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event StoredEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, session_id, timestamp, event_type, actor, payload, day, slot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.SessionID, event.Timestamp, event.EventType, event.Actor,
		string(payloadBytes), event.Day, event.Slot,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]StoredEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		var e StoredEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.Timestamp, &e.EventType, &e.Actor,
			&payloadStr, &e.Day, &e.Slot,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetBySessionID(ctx context.Context, sessionID string) ([]StoredEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, actor, payload, day, slot FROM events WHERE session_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, sessionID string, eventType string) ([]StoredEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, actor, payload, day, slot FROM events WHERE session_id = ? AND event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, eventType)
}

func (r *SQLiteEventRepository) GetByDay(ctx context.Context, sessionID string, day int) ([]StoredEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, actor, payload, day, slot FROM events WHERE session_id = ? AND day = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, day)
}

// ---------------------------------------------------------
// SQLiteSessionRepository
// ---------------------------------------------------------

type SQLiteSessionRepository struct {
	db *sql.DB
}

func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

func (r *SQLiteSessionRepository) Upsert(ctx context.Context, summary SessionSummary) error {
	query := `
		INSERT INTO sessions (session_id, role, crisis, state, day, slot, score, band, outcome, secret_revealed, evidence_count, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			state=excluded.state,
			day=excluded.day,
			slot=excluded.slot,
			score=excluded.score,
			band=excluded.band,
			outcome=excluded.outcome,
			secret_revealed=excluded.secret_revealed,
			evidence_count=excluded.evidence_count,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		summary.SessionID, summary.Role, summary.Crisis, summary.State,
		summary.Day, summary.Slot, summary.Score, summary.Band, summary.Outcome,
		summary.SecretRevealed, summary.EvidenceCount, time.Now(),
	)
	return err
}

func (r *SQLiteSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*SessionSummary, error) {
	query := `SELECT session_id, role, crisis, state, day, slot, score, band, outcome, secret_revealed, evidence_count, last_updated FROM sessions WHERE session_id = ?`
	var s SessionSummary
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&s.SessionID, &s.Role, &s.Crisis, &s.State, &s.Day, &s.Slot,
		&s.Score, &s.Band, &s.Outcome, &s.SecretRevealed, &s.EvidenceCount, &s.LastUpdated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteSessionRepository) List(ctx context.Context, limit int) ([]SessionSummary, error) {
	query := `SELECT session_id, role, crisis, state, day, slot, score, band, outcome, secret_revealed, evidence_count, last_updated FROM sessions ORDER BY last_updated DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sums []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.SessionID, &s.Role, &s.Crisis, &s.State, &s.Day, &s.Slot,
			&s.Score, &s.Band, &s.Outcome, &s.SecretRevealed, &s.EvidenceCount, &s.LastUpdated); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}
