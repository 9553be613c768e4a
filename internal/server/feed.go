package server

import (
	"net/http"
	"sync"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/revision"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type feedEvent struct {
	Revision int64 `json:"revision"`
}

// Feed pushes revision bumps to connected remote sessions over
// WebSocket, so they learn about admin edits without waiting for their
// next poll tick. Each client receives the current revision on connect
// and one event per subsequent bump.
type Feed struct {
	rev    *revision.Clock
	logger shop.Logger

	mu          sync.Mutex
	conns       map[string]*websocket.Conn
	unsubscribe revision.Unsubscribe
}

func NewFeed(rev *revision.Clock, logger shop.Logger) *Feed {
	f := &Feed{
		rev:    rev,
		logger: logger,
		conns:  make(map[string]*websocket.Conn),
	}
	f.unsubscribe = rev.Subscribe(f.broadcast)
	return f
}

// Handle upgrades the request and registers the connection.
func (f *Feed) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	connID := uuid.NewString()

	f.mu.Lock()
	f.conns[connID] = conn
	err = conn.WriteJSON(feedEvent{Revision: f.rev.Read()})
	f.mu.Unlock()

	if err != nil {
		f.drop(connID)
		return
	}

	f.logger.Debug("feed client connected", "conn", connID)
	go f.readPump(connID, conn)
}

// readPump drains inbound frames; the feed is one-way, so reads exist
// only to detect the close.
func (f *Feed) readPump(connID string, conn *websocket.Conn) {
	defer f.drop(connID)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				f.logger.Warn("feed read failed", "conn", connID, "error", err)
			}
			return
		}
	}
}

func (f *Feed) broadcast(rev int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for connID, conn := range f.conns {
		if err := conn.WriteJSON(feedEvent{Revision: rev}); err != nil {
			f.logger.Debug("feed write failed, dropping client", "conn", connID, "error", err)
			conn.Close()
			delete(f.conns, connID)
		}
	}
}

func (f *Feed) drop(connID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if conn, ok := f.conns[connID]; ok {
		conn.Close()
		delete(f.conns, connID)
	}
}

// Len reports the number of connected clients.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

// Close unsubscribes from bumps and disconnects every client.
func (f *Feed) Close() {
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for connID, conn := range f.conns {
		conn.Close()
		delete(f.conns, connID)
	}
}
