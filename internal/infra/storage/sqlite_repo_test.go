package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/torolife/server/internal/domain/life"
	"github.com/torolife/server/internal/events"
)

func openTestDB(t *testing.T) (*SQLiteEventRepository, *SQLiteSessionRepository) {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "life_test.db"))
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteEventRepository(db), NewSQLiteSessionRepository(db)
}

func storedEvent(id, sessionID string, eventType events.EventType, payload interface{}, at time.Time) StoredEvent {
	raw, _ := json.Marshal(payload)
	return StoredEvent{
		ID:        id,
		SessionID: sessionID,
		Timestamp: at,
		EventType: string(eventType),
		Source:    "TEST",
		Payload:   string(raw),
	}
}

func TestEventRepositoryRoundTrip(t *testing.T) {
	eventRepo, _ := openTestDB(t)
	ctx := context.Background()
	base := time.Now().UTC()

	rows := []StoredEvent{
		storedEvent("ev-1", "S1", events.EventTypeBoardSeeded,
			events.BoardSeededPayload{Width: 6, Height: 6, Shape: "glider", LiveCells: []life.Position{{Row: 0, Col: 2}}}, base),
		storedEvent("ev-2", "S1", events.EventTypeCellFlipped,
			events.CellFlippedPayload{Pos: life.Position{Row: 3, Col: 4}}, base.Add(time.Millisecond)),
		storedEvent("ev-3", "S2", events.EventTypeBoardCleared, nil, base.Add(2*time.Millisecond)),
	}
	for _, row := range rows {
		if err := eventRepo.Append(ctx, row); err != nil {
			t.Fatalf("Append(%s) failed: %v", row.ID, err)
		}
	}

	got, err := eventRepo.GetBySessionID(ctx, "S1")
	if err != nil {
		t.Fatalf("GetBySessionID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("session S1 returned %d events, want 2", len(got))
	}
	if got[0].ID != "ev-1" || got[1].ID != "ev-2" {
		t.Errorf("events out of timestamp order: %s, %s", got[0].ID, got[1].ID)
	}

	flips, err := eventRepo.GetByEventType(ctx, "S1", string(events.EventTypeCellFlipped))
	if err != nil {
		t.Fatalf("GetByEventType failed: %v", err)
	}
	if len(flips) != 1 || flips[0].ID != "ev-2" {
		t.Errorf("GetByEventType returned %v", flips)
	}
}

func TestEventRepositoryPurgeSession(t *testing.T) {
	eventRepo, _ := openTestDB(t)
	ctx := context.Background()
	base := time.Now().UTC()

	eventRepo.Append(ctx, storedEvent("ev-1", "S1", events.EventTypeBoardCleared, nil, base))
	eventRepo.Append(ctx, storedEvent("ev-2", "S2", events.EventTypeBoardCleared, nil, base))

	if err := eventRepo.PurgeSession(ctx, "S1"); err != nil {
		t.Fatalf("PurgeSession failed: %v", err)
	}

	if got, _ := eventRepo.GetBySessionID(ctx, "S1"); len(got) != 0 {
		t.Errorf("purged session still has %d events", len(got))
	}
	if got, _ := eventRepo.GetBySessionID(ctx, "S2"); len(got) != 1 {
		t.Errorf("purge touched another session, %d events left", len(got))
	}
}

func TestSessionRepositoryUpsert(t *testing.T) {
	_, sessionRepo := openTestDB(t)
	ctx := context.Background()

	missing, err := sessionRepo.GetBySessionID(ctx, "NOPE")
	if err != nil {
		t.Fatalf("lookup of missing session failed: %v", err)
	}
	if missing != nil {
		t.Fatal("missing session should return nil, nil")
	}

	snap := SessionSnapshot{SessionID: "S1", Width: 64, Height: 32, SeedShape: "rpentomino", Generation: 10, Paused: true}
	if err := sessionRepo.Upsert(ctx, snap); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	snap.Generation = 42
	snap.Paused = false
	if err := sessionRepo.Upsert(ctx, snap); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	got, err := sessionRepo.GetBySessionID(ctx, "S1")
	if err != nil {
		t.Fatalf("GetBySessionID failed: %v", err)
	}
	if got == nil {
		t.Fatal("upserted session not found")
	}
	if got.Generation != 42 || got.Paused || got.Width != 64 || got.SeedShape != "rpentomino" {
		t.Errorf("session row %+v", *got)
	}
}

func TestCheckpointLatestWinsByGeneration(t *testing.T) {
	_, sessionRepo := openTestDB(t)
	ctx := context.Background()

	none, err := sessionRepo.LatestCheckpoint(ctx, "S1")
	if err != nil {
		t.Fatalf("LatestCheckpoint on empty table failed: %v", err)
	}
	if none != nil {
		t.Fatal("expected nil checkpoint for unknown session")
	}

	for _, gen := range []int64{5, 20, 10} {
		cells, _ := json.Marshal([]life.Position{{Row: int(gen), Col: 0}})
		err := sessionRepo.SaveCheckpoint(ctx, BoardCheckpoint{SessionID: "S1", Generation: gen, LiveCells: string(cells)})
		if err != nil {
			t.Fatalf("SaveCheckpoint(gen %d) failed: %v", gen, err)
		}
	}

	latest, err := sessionRepo.LatestCheckpoint(ctx, "S1")
	if err != nil {
		t.Fatalf("LatestCheckpoint failed: %v", err)
	}
	if latest == nil || latest.Generation != 20 {
		t.Fatalf("latest checkpoint %+v, want generation 20", latest)
	}
}

func TestCheckpointUpsertSameGeneration(t *testing.T) {
	_, sessionRepo := openTestDB(t)
	ctx := context.Background()

	first := BoardCheckpoint{SessionID: "S1", Generation: 7, LiveCells: `[{"row":1,"col":1}]`}
	second := BoardCheckpoint{SessionID: "S1", Generation: 7, LiveCells: `[{"row":2,"col":2}]`}
	if err := sessionRepo.SaveCheckpoint(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := sessionRepo.SaveCheckpoint(ctx, second); err != nil {
		t.Fatalf("re-checkpointing the same generation failed: %v", err)
	}

	latest, err := sessionRepo.LatestCheckpoint(ctx, "S1")
	if err != nil {
		t.Fatal(err)
	}
	if latest.LiveCells != second.LiveCells {
		t.Errorf("checkpoint live cells %q, want %q", latest.LiveCells, second.LiveCells)
	}
}

func TestDecodeEventsRestoresTypedPayloads(t *testing.T) {
	base := time.Now().UTC()
	rows := []StoredEvent{
		storedEvent("ev-1", "S1", events.EventTypeBoardSeeded,
			events.BoardSeededPayload{Width: 8, Height: 8, Shape: "acorn", LiveCells: []life.Position{{Row: 1, Col: 1}, {Row: 2, Col: 2}}}, base),
		storedEvent("ev-2", "S1", events.EventTypeShapeStamped,
			events.ShapeStampedPayload{Shape: "glider", Pos: life.Position{Row: 3, Col: 3}}, base),
		storedEvent("ev-3", "S1", events.EventTypeBoardRandomized,
			events.BoardRandomizedPayload{LiveCells: []life.Position{{Row: 0, Col: 0}}}, base),
		storedEvent("ev-4", "S1", events.EventTypeGenerationAdvanced,
			events.GenerationAdvancedPayload{Generation: 3, Population: 12}, base),
		storedEvent("ev-5", "S1", events.EventTypeSimPaused, nil, base),
	}

	decoded, err := DecodeEvents(rows)
	if err != nil {
		t.Fatalf("DecodeEvents failed: %v", err)
	}
	if len(decoded) != len(rows) {
		t.Fatalf("decoded %d events, want %d", len(decoded), len(rows))
	}

	seeded, ok := decoded[0].Payload.(events.BoardSeededPayload)
	if !ok {
		t.Fatalf("BOARD_SEEDED payload has type %T", decoded[0].Payload)
	}
	if seeded.Shape != "acorn" || len(seeded.LiveCells) != 2 {
		t.Errorf("seeded payload %+v", seeded)
	}

	stamped, ok := decoded[1].Payload.(events.ShapeStampedPayload)
	if !ok || stamped.Shape != "glider" || stamped.Pos != (life.Position{Row: 3, Col: 3}) {
		t.Errorf("stamped payload %+v (%T)", decoded[1].Payload, decoded[1].Payload)
	}

	advanced, ok := decoded[3].Payload.(events.GenerationAdvancedPayload)
	if !ok || advanced.Generation != 3 || advanced.Population != 12 {
		t.Errorf("advanced payload %+v (%T)", decoded[3].Payload, decoded[3].Payload)
	}

	// Pause events carry no payload the engine replays.
	if decoded[4].Payload != nil {
		t.Errorf("SIM_PAUSED payload should stay nil, got %v", decoded[4].Payload)
	}
}

func TestDecodeEventsRejectsMalformedPayload(t *testing.T) {
	rows := []StoredEvent{{
		ID:        "ev-bad",
		SessionID: "S1",
		EventType: string(events.EventTypeBoardSeeded),
		Payload:   "{not json",
	}}
	if _, err := DecodeEvents(rows); err == nil {
		t.Error("expected decode error for malformed payload")
	}
}
