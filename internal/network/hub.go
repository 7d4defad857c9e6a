package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/torolife/server/internal/engine"
	"github.com/torolife/server/internal/platform/logger"
	"github.com/torolife/server/internal/platform/metrics"
)

// Hub maintains the set of active clients and broadcasts board frames to
// them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
	engine     *engine.Engine
}

// NewHub initializes a new WebSocket Hub bound to a session engine.
func NewHub(eng *engine.Engine, log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
		engine:     eng,
	}
}

// Run starts the Hub's main loop to handle client connections and
// broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New editor client connected")
			// Late joiners get the current board immediately.
			client.sendFrame(FrameFromSnapshot(h.engine.Snapshot()))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("Editor client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastFrame serializes a board frame and sends it to all clients.
func (h *Hub) BroadcastFrame(frame BoardFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("Failed to serialize BoardFrame for broadcast: " + err.Error())
		metrics.Get().RecordWSError()
		return
	}
	h.broadcast <- payload
}

// StartFramePoller spawns a goroutine that watches the journal and pushes a
// fresh frame whenever the session changed. The hub runs independently from
// the engine's dispatch loop while observing the same journal.
func (h *Hub) StartFramePoller(ctx context.Context) {
	go func() {
		pollInterval := time.NewTicker(50 * time.Millisecond)
		defer pollInterval.Stop()

		lastSeen := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				journalLen := h.engine.Journal().Len()
				if journalLen == lastSeen {
					continue
				}
				lastSeen = journalLen
				h.BroadcastFrame(FrameFromSnapshot(h.engine.Snapshot()))
			}
		}
	}()
}
