package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kkusima/commitpulse/internal/pipeline"
	"github.com/kkusima/commitpulse/pkg/logger"
)

const writeTimeout = 10 * time.Second

// Hub pushes freshly generated summaries to connected websocket clients.
// It subscribes to the pipeline, so a client holding /ws open sees every
// refresh without polling.
type Hub struct {
	logger   *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	conns   map[*websocket.Conn]struct{}
	lastMsg *pipeline.Result
}

// NewHub creates a websocket hub and subscribes it to the pipeline service.
func NewHub(svc *pipeline.Service, log *logger.Logger) *Hub {
	h := &Hub{
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
	svc.Subscribe(h.Broadcast)
	return h
}

// Serve upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	last := h.lastMsg
	h.mu.Unlock()

	h.logger.WithField("remote", conn.RemoteAddr().String()).Debug("Websocket client connected")

	// Replay the latest result so new clients start with current state
	if last != nil {
		h.send(conn, last)
	}

	// Reader loop exists only to detect disconnects
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends a generation result to every connected client.
func (h *Hub) Broadcast(result *pipeline.Result) {
	h.mu.Lock()
	h.lastMsg = result
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		h.send(conn, result)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) send(conn *websocket.Conn, result *pipeline.Result) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(result); err != nil {
		h.logger.WithError(err).Debug("Websocket write failed, dropping client")
		h.drop(conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	h.mu.Unlock()

	if ok {
		conn.Close()
	}
}
