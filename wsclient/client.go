// Package wsclient is the Go session manager for the live score
// WebSocket feed. It keeps one connection per consumer, re-joins match
// rooms after a reconnect, and delivers events to handlers in the
// order the server emitted them.
package wsclient

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"livescore-service/pkg/common"
	"livescore-service/sportsapi"
)

const (
	// DefaultReconnectDelay is the fixed delay between reconnection attempts
	DefaultReconnectDelay = 1 * time.Second

	// DefaultMaxReconnectAttempts bounds the reconnection loop. Once
	// exhausted the client stays silent and the application is expected
	// to fall back to polling.
	DefaultMaxReconnectAttempts = 5

	// PingInterval is the interval for sending ping frames
	PingInterval = 30 * time.Second
)

// Event names mirrored from the server protocol
const (
	EventConnected         = "connected"
	EventLiveMatchesUpdate = "liveMatchesUpdate"
	EventMatchUpdate       = "matchUpdate"

	eventJoinMatch  = "joinMatch"
	eventLeaveMatch = "leaveMatch"
)

// Message is the wire envelope for server frames
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// MessageHandler is a function that handles server frames
type MessageHandler func(message *Message)

// Client manages one WebSocket session against the live score server
type Client struct {
	url  string
	conn *websocket.Conn
	mu   sync.RWMutex

	handlers map[string][]MessageHandler
	rooms    map[int64]bool

	isConnected   bool
	autoReconnect bool
	stopChan      chan struct{}

	// ReconnectDelay and MaxReconnectAttempts default to the package
	// constants and can be tuned before Connect.
	ReconnectDelay       time.Duration
	MaxReconnectAttempts int
}

// NewClient creates a new session manager for the given WebSocket URL
// (e.g. ws://localhost:5000/ws)
func NewClient(url string) *Client {
	return &Client{
		url:                  url,
		handlers:             make(map[string][]MessageHandler),
		rooms:                make(map[int64]bool),
		autoReconnect:        true,
		ReconnectDelay:       DefaultReconnectDelay,
		MaxReconnectAttempts: DefaultMaxReconnectAttempts,
	}
}

// Connect establishes the WebSocket connection. Calling Connect on an
// already connected client is a no-op.
func (c *Client) Connect() error {
	c.mu.Lock()

	if c.isConnected {
		c.mu.Unlock()
		return nil
	}

	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.conn = conn
	c.isConnected = true

	// Each connection gets its own stop channel, so a client stays
	// usable after an explicit Disconnect.
	c.stopChan = make(chan struct{})
	stop := c.stopChan

	// Restore room membership lost with the previous connection
	for matchID := range c.rooms {
		if err := conn.WriteJSON(map[string]interface{}{"event": eventJoinMatch, "data": matchID}); err != nil {
			log.Printf("Failed to re-join match %d: %v", matchID, err)
		}
	}

	c.mu.Unlock()

	go c.readMessages(conn, stop)
	go c.pingLoop(conn, stop)

	return nil
}

// Disconnect tears the connection down and deregisters every handler
// registered through this client.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isConnected {
		return common.ErrNotConnected
	}

	c.autoReconnect = false
	close(c.stopChan)

	c.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	err := c.conn.Close()
	c.isConnected = false

	// No leaked handlers after a teardown
	c.handlers = make(map[string][]MessageHandler)
	c.rooms = make(map[int64]bool)

	return err
}

// IsConnected returns whether the session is currently established
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

// JoinMatch subscribes this session to a match room
func (c *Client) JoinMatch(matchID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isConnected {
		return common.ErrNotConnected
	}

	c.rooms[matchID] = true
	return c.conn.WriteJSON(map[string]interface{}{"event": eventJoinMatch, "data": matchID})
}

// LeaveMatch unsubscribes this session from a match room
func (c *Client) LeaveMatch(matchID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isConnected {
		return common.ErrNotConnected
	}

	delete(c.rooms, matchID)
	return c.conn.WriteJSON(map[string]interface{}{"event": eventLeaveMatch, "data": matchID})
}

// On registers a handler for a specific event
func (c *Client) On(event string, handler MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers[event] = append(c.handlers[event], handler)
}

// OnLiveMatchesUpdate registers a handler for the live-list broadcast
func (c *Client) OnLiveMatchesUpdate(handler func([]sportsapi.Fixture)) {
	c.On(EventLiveMatchesUpdate, func(msg *Message) {
		var fixtures []sportsapi.Fixture
		if err := json.Unmarshal(msg.Data, &fixtures); err != nil {
			log.Printf("Error unmarshaling live matches update: %v", err)
			return
		}
		handler(fixtures)
	})
}

// OnMatchUpdate registers a handler for room-scoped match updates
func (c *Client) OnMatchUpdate(handler func(json.RawMessage)) {
	c.On(EventMatchUpdate, func(msg *Message) {
		handler(msg.Data)
	})
}

// readMessages reads server frames until the connection drops
func (c *Client) readMessages(conn *websocket.Conn, stop chan struct{}) {
	defer func() {
		c.mu.Lock()
		c.isConnected = false
		reconnect := c.autoReconnect
		c.mu.Unlock()

		if reconnect {
			go c.reconnect(stop)
		}
	}()

	for {
		select {
		case <-stop:
			return
		default:
			var msg Message
			err := conn.ReadJSON(&msg)
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket error: %v", err)
				}
				return
			}

			c.dispatchMessage(&msg)
		}
	}
}

// dispatchMessage runs the registered handlers for a frame. Handlers
// run one at a time on the read loop, so a session observes events in
// the order the server emitted them.
func (c *Client) dispatchMessage(msg *Message) {
	c.mu.RLock()
	handlers := make([]MessageHandler, len(c.handlers[msg.Event]))
	copy(handlers, c.handlers[msg.Event])
	c.mu.RUnlock()

	for _, handler := range handlers {
		handler(msg)
	}
}

// pingLoop sends periodic ping frames
func (c *Client) pingLoop(conn *websocket.Conn, stop chan struct{}) {
	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.RLock()
			connected := c.isConnected && c.conn == conn
			c.mu.RUnlock()
			if !connected {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Error sending ping: %v", err)
				return
			}
		}
	}
}

// reconnect retries the connection with a fixed delay, giving up after
// a bounded number of attempts.
func (c *Client) reconnect(stop chan struct{}) {
	for attempt := 1; attempt <= c.MaxReconnectAttempts; attempt++ {
		select {
		case <-stop:
			return
		case <-time.After(c.ReconnectDelay):
			if err := c.Connect(); err != nil {
				log.Printf("Reconnect attempt %d/%d failed: %v", attempt, c.MaxReconnectAttempts, err)
				continue
			}

			log.Printf("Reconnected")
			return
		}
	}

	log.Printf("Giving up after %d reconnect attempts", c.MaxReconnectAttempts)
}

// SetAutoReconnect toggles the reconnection loop
func (c *Client) SetAutoReconnect(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoReconnect = enabled
}
