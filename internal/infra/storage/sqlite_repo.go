package storage

import (
	"context"
	"database/sql"
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
	query := `
		INSERT INTO sim_events (id, session_id, timestamp, event_type, source, payload, generation)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.SessionID, event.Timestamp, event.EventType,
		event.Source, event.Payload, event.Generation,
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
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.Timestamp, &e.EventType,
			&e.Source, &e.Payload, &e.Generation,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetBySessionID(ctx context.Context, sessionID string) ([]StoredEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, source, payload, generation FROM sim_events WHERE session_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, sessionID, eventType string) ([]StoredEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, source, payload, generation FROM sim_events WHERE session_id = ? AND event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, eventType)
}

func (r *SQLiteEventRepository) PurgeSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sim_events WHERE session_id = ?`, sessionID)
	return err
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

func (r *SQLiteSessionRepository) Upsert(ctx context.Context, snapshot SessionSnapshot) error {
	query := `
		INSERT INTO sessions (session_id, width, height, seed_shape, generation, paused, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			width=excluded.width,
			height=excluded.height,
			seed_shape=excluded.seed_shape,
			generation=excluded.generation,
			paused=excluded.paused,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.SessionID, snapshot.Width, snapshot.Height, snapshot.SeedShape,
		snapshot.Generation, snapshot.Paused, time.Now(),
	)
	return err
}

func (r *SQLiteSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	query := `SELECT session_id, width, height, seed_shape, generation, paused FROM sessions WHERE session_id = ?`
	var s SessionSnapshot
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&s.SessionID, &s.Width, &s.Height, &s.SeedShape, &s.Generation, &s.Paused,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteSessionRepository) SaveCheckpoint(ctx context.Context, cp BoardCheckpoint) error {
	query := `
		INSERT INTO board_snapshots (session_id, generation, live_cells, taken_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, generation) DO UPDATE SET
			live_cells=excluded.live_cells,
			taken_at=excluded.taken_at
	`
	_, err := r.db.ExecContext(ctx, query, cp.SessionID, cp.Generation, cp.LiveCells, time.Now())
	return err
}

func (r *SQLiteSessionRepository) LatestCheckpoint(ctx context.Context, sessionID string) (*BoardCheckpoint, error) {
	query := `SELECT session_id, generation, live_cells, taken_at FROM board_snapshots WHERE session_id = ? ORDER BY generation DESC LIMIT 1`
	var cp BoardCheckpoint
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&cp.SessionID, &cp.Generation, &cp.LiveCells, &cp.TakenAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &cp, nil
}
