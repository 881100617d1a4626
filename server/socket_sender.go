package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// socketSender serializes writes; gorilla connections allow one writer at a time
type socketSender struct {
	mu            sync.Mutex
	conn          *websocket.Conn
	writeDeadline time.Duration
}

func (s *socketSender) Send(msg *SocketMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeDeadline)); err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

func (s *socketSender) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}
