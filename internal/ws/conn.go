package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Conn is the minimal live-connection handle the hub needs: deliver one
// serialized frame, or close. Handlers own the read side; the hub only writes.
type Conn interface {
	WriteText(data []byte) error
	Close() error
}

// wsConn adapts a gorilla connection to Conn. gorilla permits a single
// concurrent writer, so all writes go through one mutex; the read loop in the
// handler is unaffected.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewConn wraps a gorilla websocket connection for use with the hub.
func NewConn(conn *websocket.Conn) Conn {
	return &wsConn{conn: conn}
}

func (c *wsConn) WriteText(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
