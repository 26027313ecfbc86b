package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// client wraps a connection with a write lock: gorilla connections do
// not support concurrent writers, and the reveal timer broadcasts
// concurrently with handler-driven broadcasts.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (that *client) write(data []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks the live connections of every room and fans broadcast
// payloads out to them as JSON text frames.
type Hub struct {
	logger *slog.Logger

	mu    sync.RWMutex
	rooms map[string]map[string]*client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms:  make(map[string]map[string]*client),
	}
}

func (that *Hub) Join(roomID, connID string, conn *websocket.Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		room = make(map[string]*client)
		that.rooms[roomID] = room
	}

	room[connID] = &client{conn: conn}
}

func (that *Hub) Leave(roomID, connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return
	}

	delete(room, connID)

	if len(room) == 0 {
		delete(that.rooms, roomID)
	}
}

// Broadcast sends payload to every connection in the room.
func (that *Hub) Broadcast(roomID string, payload any) {
	log := that.logger.With("method", "Broadcast", "roomID", roomID)

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to marshal payload", "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for connID, member := range that.rooms[roomID] {
		if err = member.write(data); err != nil {
			log.Warn("failed to write to connection", "connID", connID, "error", err)
		}
	}
}

// Send delivers payload to a single connection in the room.
func (that *Hub) Send(roomID, connID string, payload any) {
	log := that.logger.With("method", "Send", "roomID", roomID, "connID", connID)

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to marshal payload", "error", err)
		return
	}

	that.mu.RLock()
	member, ok := that.rooms[roomID][connID]
	that.mu.RUnlock()

	if !ok {
		log.Warn("connection not found")
		return
	}

	if err = member.write(data); err != nil {
		log.Warn("failed to write to connection", "error", err)
	}
}
