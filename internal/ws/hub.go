package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"messenger_go/internal/domain"
)

// Hub tracks live connections per chat and fans envelopes out to them.
// It is transport-level only: whether a connected user is a data-level chat
// member is decided before registration, by the handler.
//
// Locking is two-level so unrelated chats never serialize: the hub mutex
// guards the room map and registration, each room has its own mutex, and
// Broadcast writes to a snapshot taken under the room's read lock, never while
// holding either lock. Registration inserts while still holding the hub mutex
// so it can never land in a room that empty-room pruning just removed.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]*room
	log   *zap.Logger

	closed bool
}

type room struct {
	mu    sync.RWMutex
	conns map[Conn]struct{}
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]*room),
		log:   log,
	}
}

// Register adds conn to the chat's live set. Re-registering the same handle
// is a no-op.
func (h *Hub) Register(chatID uuid.UUID, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		conn.Close()
		return
	}
	r, ok := h.rooms[chatID]
	if !ok {
		r = &room{conns: make(map[Conn]struct{})}
		h.rooms[chatID] = r
	}

	// Insert before releasing the hub mutex; pruning in Unregister also runs
	// under it, so the room cannot be dropped from the map in between.
	r.mu.Lock()
	r.conns[conn] = struct{}{}
	r.mu.Unlock()
}

// Unregister removes conn from the chat's live set if present. Safe to call
// multiple times; a registered-elsewhere or unknown conn is a no-op.
func (h *Hub) Unregister(chatID uuid.UUID, conn Conn) {
	h.mu.RLock()
	r, ok := h.rooms[chatID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	r.mu.Lock()
	delete(r.conns, conn)
	empty := len(r.conns) == 0
	r.mu.Unlock()

	if empty {
		h.mu.Lock()
		// Re-check under the write lock; a Register may have raced in.
		r.mu.RLock()
		if len(r.conns) == 0 && h.rooms[chatID] == r {
			delete(h.rooms, chatID)
		}
		r.mu.RUnlock()
		h.mu.Unlock()
	}
}

// Broadcast serializes env once and delivers it to every connection registered
// for the chat at call time. A failed connection is closed and unregistered;
// the failure never aborts delivery to the rest and never reaches the caller.
func (h *Hub) Broadcast(chatID uuid.UUID, env domain.Envelope) {
	h.mu.RLock()
	r, ok := h.rooms[chatID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	r.mu.RLock()
	if len(r.conns) == 0 {
		r.mu.RUnlock()
		return
	}
	snapshot := make([]Conn, 0, len(r.conns))
	for conn := range r.conns {
		snapshot = append(snapshot, conn)
	}
	r.mu.RUnlock()

	data, err := json.Marshal(env)
	if err != nil {
		h.log.Error("marshal envelope", zap.String("type", string(env.Type)), zap.Error(err))
		return
	}

	for _, conn := range snapshot {
		if err := conn.WriteText(data); err != nil {
			h.log.Warn("dropping dead connection",
				zap.String("chat_id", chatID.String()),
				zap.Error(err),
			)
			conn.Close()
			h.Unregister(chatID, conn)
		}
	}
}

// ConnectionCount reports how many connections are currently registered for
// the chat.
func (h *Hub) ConnectionCount(chatID uuid.UUID) int {
	h.mu.RLock()
	r, ok := h.rooms[chatID]
	h.mu.RUnlock()
	if !ok {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Shutdown closes and drops every registered connection. Subsequent registers
// are refused by closing the incoming connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	rooms := h.rooms
	h.rooms = make(map[uuid.UUID]*room)
	h.mu.Unlock()

	for _, r := range rooms {
		r.mu.Lock()
		for conn := range r.conns {
			conn.Close()
		}
		r.conns = make(map[Conn]struct{})
		r.mu.Unlock()
	}
}
