package web

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gorilla/websocket"

	"livescore-service/logger"
)

// WSMessage is the envelope for every frame exchanged over /ws.
type WSMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Client is one connected session.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

type roomChange struct {
	client  *Client
	matchID int64
}

type outboundMessage struct {
	room    string // empty targets every connected client
	message *WSMessage
}

// Hub tracks connected clients and their match-room memberships. All
// membership mutation and broadcast enumeration happens on the Run
// goroutine, so joins, leaves and disconnects never race a delivery.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	broadcast  chan *outboundMessage
	register   chan *Client
	unregister chan *Client
	joins      chan roomChange
	leaves     chan roomChange
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *outboundMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		joins:      make(chan roomChange),
		leaves:     make(chan roomChange),
	}
}

// RoomName returns the room a match's updates are delivered to.
func RoomName(matchID int64) string {
	return fmt.Sprintf("match_%d", matchID)
}

// Run processes registration, room membership and broadcast events.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.Printf("Client registered. Total clients: %d", len(h.clients))

		case client := <-h.unregister:
			h.dropClient(client)
			logger.Printf("Client unregistered. Total clients: %d", len(h.clients))

		case change := <-h.joins:
			room := RoomName(change.matchID)
			if h.rooms[room] == nil {
				h.rooms[room] = make(map[*Client]bool)
			}
			h.rooms[room][change.client] = true
			logger.Printf("Client joined room %s (%d members)", room, len(h.rooms[room]))

		case change := <-h.leaves:
			room := RoomName(change.matchID)
			if members, ok := h.rooms[room]; ok {
				delete(members, change.client)
				if len(members) == 0 {
					delete(h.rooms, room)
				}
			}
			logger.Printf("Client left room %s", room)

		case msg := <-h.broadcast:
			targets := h.clients
			if msg.room != "" {
				targets = h.rooms[msg.room]
			}

			data := h.marshalMessage(msg.message)
			for client := range targets {
				select {
				case client.send <- data:
				default:
					// Slow consumer; drop it rather than stall the loop.
					h.dropClient(client)
				}
			}
		}
	}
}

// dropClient removes a client from the hub and from every room it
// joined, so an emit after a disconnect never reaches it.
func (h *Hub) dropClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for room, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(client.send)
}

// Broadcast delivers an event to every connected client
// (implements services.Broadcaster).
func (h *Hub) Broadcast(event string, payload interface{}) {
	h.broadcast <- &outboundMessage{
		message: &WSMessage{Event: event, Data: payload},
	}
}

// EmitToRoom delivers an event only to the clients watching one match.
func (h *Hub) EmitToRoom(matchID int64, event string, payload interface{}) {
	h.broadcast <- &outboundMessage{
		room:    RoomName(matchID),
		message: &WSMessage{Event: event, Data: payload},
	}
}

// Join adds a client to a match room.
func (h *Hub) Join(client *Client, matchID int64) {
	h.joins <- roomChange{client: client, matchID: matchID}
}

// Leave removes a client from a match room.
func (h *Hub) Leave(client *Client, matchID int64) {
	h.leaves <- roomChange{client: client, matchID: matchID}
}

// marshalMessage serializes an outbound message
func (h *Hub) marshalMessage(message *WSMessage) []byte {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Errorf("Failed to marshal message: %v", err)
		return []byte("{}")
	}
	return data
}

// readPump reads client frames until the connection drops
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump writes queued frames to the client
func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()

	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// handleMessage processes a frame sent by the client
func (c *Client) handleMessage(message []byte) {
	var msg WSMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Errorf("Failed to unmarshal client message: %v", err)
		return
	}

	switch msg.Event {
	case "joinMatch":
		matchID, ok := matchIDFromPayload(msg.Data)
		if !ok {
			logger.Errorf("joinMatch with invalid match ID: %v", msg.Data)
			return
		}
		c.hub.Join(c, matchID)

	case "leaveMatch":
		matchID, ok := matchIDFromPayload(msg.Data)
		if !ok {
			logger.Errorf("leaveMatch with invalid match ID: %v", msg.Data)
			return
		}
		c.hub.Leave(c, matchID)
	}
}

// matchIDFromPayload accepts the match ID as a JSON number or string
func matchIDFromPayload(data interface{}) (int64, bool) {
	switch v := data.(type) {
	case float64:
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
