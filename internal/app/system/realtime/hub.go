// internal/app/system/realtime/hub.go
package realtime

import (
	"sync"
)

// Hub tracks websocket connections per room. Rooms are keyed by group
// ID; every member tab watching a group's chat joins that group's room.
// Broadcast deduplicates by message ID so a redelivered change event
// reaches each room at most once.
type Hub struct {
	mu        sync.RWMutex
	rooms     map[string]map[string]*Connection // roomID -> connID -> connection
	connRooms map[string]map[string]struct{}    // connID -> set of roomIDs
	conns     map[string]*Connection            // connID -> connection
	lastMsg   map[string]string                 // roomID -> last broadcast message ID
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		rooms:     make(map[string]map[string]*Connection),
		connRooms: make(map[string]map[string]struct{}),
		conns:     make(map[string]*Connection),
		lastMsg:   make(map[string]string),
	}
}

// Attach registers a connection with the hub. The caller starts the
// connection's write loop once it is ready to service the socket.
func (h *Hub) Attach(conn *Connection) {
	h.mu.Lock()
	h.conns[conn.ID] = conn
	h.connRooms[conn.ID] = make(map[string]struct{})
	h.mu.Unlock()
}

// Detach removes a connection from the hub and every room it joined.
// The caller is responsible for closing the connection.
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[conn.ID]; !ok {
		return
	}
	delete(h.conns, conn.ID)
	for roomID := range h.connRooms[conn.ID] {
		h.leaveLocked(roomID, conn.ID)
	}
	delete(h.connRooms, conn.ID)
}

// Join adds the connection to the room. Unattached connections are ignored.
func (h *Hub) Join(roomID string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[conn.ID]; !ok {
		return
	}

	room := h.rooms[roomID]
	if room == nil {
		room = make(map[string]*Connection)
		h.rooms[roomID] = room
	}
	room[conn.ID] = conn
	h.connRooms[conn.ID][roomID] = struct{}{}
}

// Leave removes the connection from the room.
func (h *Hub) Leave(roomID string, conn *Connection) {
	h.mu.Lock()
	h.leaveLocked(roomID, conn.ID)
	h.mu.Unlock()
}

// RoomSize returns the number of connections currently in the room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Broadcast writes payload to all members of the room. msgID, when
// non-empty, is compared to the room's last delivered message ID and
// duplicate deliveries are dropped. Returns the number of connections
// the payload was queued for.
func (h *Hub) Broadcast(roomID, msgID string, payload []byte) int {
	h.mu.Lock()
	if msgID != "" {
		if h.lastMsg[roomID] == msgID {
			h.mu.Unlock()
			return 0
		}
		h.lastMsg[roomID] = msgID
	}
	room := h.rooms[roomID]
	targets := make([]*Connection, 0, len(room))
	for _, conn := range room {
		targets = append(targets, conn)
	}
	h.mu.Unlock()

	delivered := 0
	for _, conn := range targets {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.rooms = make(map[string]map[string]*Connection)
	h.connRooms = make(map[string]map[string]struct{})
	h.conns = make(map[string]*Connection)
	h.lastMsg = make(map[string]string)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) leaveLocked(roomID, connID string) {
	room := h.rooms[roomID]
	if room == nil {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(h.rooms, roomID)
		delete(h.lastMsg, roomID)
	}
	if memberships, ok := h.connRooms[connID]; ok {
		delete(memberships, roomID)
	}
}
