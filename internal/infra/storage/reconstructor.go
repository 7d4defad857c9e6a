package storage

import (
	"encoding/json"
	"fmt"

	"github.com/torolife/server/internal/events"
)

// DecodeEvents converts stored journal rows back into typed simulation
// events so the engine can replay them. Rows with event types the engine
// does not replay keep a nil payload.
func DecodeEvents(stored []StoredEvent) ([]events.SimEvent, error) {
	out := make([]events.SimEvent, 0, len(stored))
	for _, row := range stored {
		ev := events.SimEvent{
			ID:         row.ID,
			Timestamp:  row.Timestamp,
			Type:       events.EventType(row.EventType),
			Source:     row.Source,
			Generation: row.Generation,
		}

		var err error
		switch ev.Type {
		case events.EventTypeBoardSeeded:
			var p events.BoardSeededPayload
			err = json.Unmarshal([]byte(row.Payload), &p)
			ev.Payload = p
		case events.EventTypeCellFlipped:
			var p events.CellFlippedPayload
			err = json.Unmarshal([]byte(row.Payload), &p)
			ev.Payload = p
		case events.EventTypeShapeStamped:
			var p events.ShapeStampedPayload
			err = json.Unmarshal([]byte(row.Payload), &p)
			ev.Payload = p
		case events.EventTypeBoardRandomized:
			var p events.BoardRandomizedPayload
			err = json.Unmarshal([]byte(row.Payload), &p)
			ev.Payload = p
		case events.EventTypeGenerationAdvanced:
			var p events.GenerationAdvancedPayload
			err = json.Unmarshal([]byte(row.Payload), &p)
			ev.Payload = p
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s payload for event %s: %w", row.EventType, row.ID, err)
		}
		out = append(out, ev)
	}
	return out, nil
}
