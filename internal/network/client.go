package network

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/torolife/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client represents an active editor connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

// NewClient creates a new WebSocket client with the given outbound frame
// buffer.
func NewClient(hub *Hub, conn *websocket.Conn, id string, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		id:   id,
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

func (c *Client) sendFrame(frame BoardFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// ReadPump pumps editor actions from the websocket connection into the
// engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
				metrics.Get().RecordWSError()
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action EditorAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse EditorAction from WebSocket. err: " + err.Error())
			continue
		}

		c.handleEditorAction(action)
	}
}

// handleEditorAction routes the action through the shared boundary check.
func (c *Client) handleEditorAction(action EditorAction) {
	if err := ApplyAction(c.hub.engine, action, c.id); err != nil {
		c.hub.logger.Warn(fmt.Sprintf("%s from %s dropped: %s", action.Type, c.id, err))
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
