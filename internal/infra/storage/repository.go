// Package storage persists the simulation journal and session state. The
// engine never imports this package; wiring happens in cmd mains through the
// events.EventPersister interface.
package storage

import (
	"context"
	"time"
)

// StoredEvent is the database form of a journal event. The payload is JSON.
type StoredEvent struct {
	ID         string
	SessionID  string
	Timestamp  time.Time
	EventType  string
	Source     string
	Payload    string
	Generation int64
}

// SessionSnapshot is the durable summary of one simulation session.
type SessionSnapshot struct {
	SessionID  string
	Width      int
	Height     int
	SeedShape  string
	Generation int64
	Paused     bool
}

// BoardCheckpoint is a periodic live-set checkpoint so long sessions do not
// need a full journal replay.
type BoardCheckpoint struct {
	SessionID  string
	Generation int64
	LiveCells  string // JSON array of positions
	TakenAt    time.Time
}

// EventRepository stores and retrieves journal events.
type EventRepository interface {
	Append(ctx context.Context, event StoredEvent) error
	GetBySessionID(ctx context.Context, sessionID string) ([]StoredEvent, error)
	GetByEventType(ctx context.Context, sessionID, eventType string) ([]StoredEvent, error)
	PurgeSession(ctx context.Context, sessionID string) error
}

// SessionRepository stores session summaries and board checkpoints.
type SessionRepository interface {
	Upsert(ctx context.Context, snapshot SessionSnapshot) error
	GetBySessionID(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	SaveCheckpoint(ctx context.Context, cp BoardCheckpoint) error
	LatestCheckpoint(ctx context.Context, sessionID string) (*BoardCheckpoint, error)
}
