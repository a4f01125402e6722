package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	id   string
	ws   *websocket.Conn
	send chan []byte
	once sync.Once
}

// enqueue never blocks; a full queue drops the message.
func (c *client) enqueue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) writePump(h *Hub) {
	defer h.unregister(c)
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Debugw("telemetry write failed", "client", c.id, "error", err)
			return
		}
	}
}

// readPump only exists to notice closed connections.
func (c *client) readPump(h *Hub) {
	defer h.unregister(c)
	c.ws.SetReadLimit(1 << 10)
	_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// Hub fans snapshots out to websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	metrics *Metrics
	log     *zap.SugaredLogger
}

func NewHub(metrics *Metrics, log *zap.SugaredLogger) *Hub {
	if metrics == nil {
		metrics = &Metrics{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{clients: map[string]*client{}, metrics: metrics, log: log}
}

func (h *Hub) Metrics() *Metrics { return h.metrics }

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues msg for every client without blocking.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		if !c.enqueue(msg) {
			h.metrics.IncClientDrop()
		}
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("telemetry upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{id: uuid.NewString(), ws: ws, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.metrics.AddClients(1)
	h.log.Infow("telemetry client connected", "client", c.id, "remote", r.RemoteAddr)

	go c.writePump(h)
	go c.readPump(h)
}

func (h *Hub) unregister(c *client) {
	c.once.Do(func() {
		h.mu.Lock()
		delete(h.clients, c.id)
		close(c.send)
		h.mu.Unlock()
		_ = c.ws.Close()
		h.metrics.AddClients(-1)
		h.log.Infow("telemetry client disconnected", "client", c.id)
	})
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.unregister(c)
	}
}
