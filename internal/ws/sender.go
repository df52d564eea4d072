package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// connSender adapts a gorilla websocket connection to the Sender
// interface. Gorilla connections allow only one concurrent writer, so
// sends are serialized with a mutex and bounded by a write deadline.
type connSender struct {
	conn    *websocket.Conn
	mu      sync.Mutex
	timeout time.Duration
}

func newConnSender(conn *websocket.Conn, timeout time.Duration) *connSender {
	return &connSender{conn: conn, timeout: timeout}
}

func (s *connSender) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.timeout))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

func (s *connSender) Close() error {
	return s.conn.Close()
}
