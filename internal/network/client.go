package network

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kingdom-crisis/server/internal/domain/role"
	"github.com/kingdom-crisis/server/internal/engine"
	"github.com/kingdom-crisis/server/internal/platform/metrics"
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
	// Minimum delay between gameplay commands from one client.
	actionCooldown = 500 * time.Millisecond
)

// Client represents an active WebSocket connection.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// PlayerCommand represents an incoming command from the frontend.
type PlayerCommand struct {
	Type    string          `json:"type"` // "ACQUIRE", "TRANSFER", "PREPARE", ...
	Payload json.RawMessage `json:"payload"`
}

// ReadPump pumps messages from the websocket connection to the hub.
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

		var cmd PlayerCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.logger.Error("Failed to parse PlayerCommand from WebSocket. err: " + err.Error())
			continue
		}

		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd PlayerCommand) {
	// Read-only commands bypass the cooldown.
	switch cmd.Type {
	case "GET_STATE":
		c.sendMessage(ServerMessage{Type: "SNAPSHOT", Payload: c.hub.engine.Snapshot()})
		return
	case "GET_ACTIONS":
		c.sendMessage(ServerMessage{Type: "ACTIONS", Payload: c.hub.engine.Actions()})
		return
	case "GET_RECAP":
		recap, err := c.hub.engine.Recap()
		if err != nil {
			c.sendError(err)
			return
		}
		c.sendMessage(ServerMessage{Type: "RECAP", Payload: recap})
		return
	}

	if time.Since(c.lastActionTime) < actionCooldown {
		c.hub.logger.Warn("Rate limit exceeded for client command " + cmd.Type)
		return
	}
	c.lastActionTime = time.Now()

	var (
		snap engine.Snapshot
		err  error
	)
	switch cmd.Type {
	case "BEGIN":
		snap, err = c.hub.engine.Begin()
	case "ACQUIRE":
		var p struct {
			Resource string `json:"resource"`
			Amount   int    `json:"amount"`
		}
		if err = json.Unmarshal(cmd.Payload, &p); err == nil {
			snap, err = c.hub.engine.Acquire(role.Resource(p.Resource), p.Amount)
		}
	case "PERFORM_ACQUISITION":
		var p struct {
			ActionID string `json:"action_id"`
		}
		if err = json.Unmarshal(cmd.Payload, &p); err == nil {
			snap, err = c.hub.engine.PerformAcquisition(p.ActionID)
		}
	case "TRANSFER":
		var p struct {
			From   string `json:"from"`
			To     string `json:"to"`
			Amount int    `json:"amount"`
		}
		if err = json.Unmarshal(cmd.Payload, &p); err == nil {
			snap, err = c.hub.engine.Transfer(role.Resource(p.From), role.Resource(p.To), p.Amount)
		}
	case "PREPARE":
		var p struct {
			ActionID string `json:"action_id"`
		}
		if err = json.Unmarshal(cmd.Payload, &p); err == nil {
			snap, err = c.hub.engine.Prepare(p.ActionID)
		}
	case "INVESTIGATE":
		var p struct {
			MethodID string `json:"method_id"`
		}
		if err = json.Unmarshal(cmd.Payload, &p); err == nil {
			snap, err = c.hub.engine.Investigate(p.MethodID)
		}
	case "ADVANCE":
		snap, err = c.hub.engine.Advance()
	case "REVEAL_SECRET":
		snap, err = c.hub.engine.RevealSecret()
	default:
		c.hub.logger.Warn("Unknown PlayerCommand type: " + cmd.Type)
		return
	}

	metrics.Get().RecordAction(err)
	if err != nil {
		c.sendError(err)
		return
	}
	c.hub.BroadcastSnapshot(snap)
}

// errorBody is the wire form of a rejected command.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (c *Client) sendError(err error) {
	kind := "INTERNAL"
	if e, ok := err.(*engine.Error); ok {
		kind = string(e.Kind)
	}
	c.sendMessage(ServerMessage{Type: "ERROR", Payload: errorBody{Kind: kind, Message: err.Error()}})
}

// sendMessage delivers a message to this client only.
func (c *Client) sendMessage(msg ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("Failed to serialize server message: " + err.Error())
		return
	}
	select {
	case c.send <- payload:
		metrics.Get().RecordWSMessage(false)
	default:
		metrics.Get().RecordWSError()
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
