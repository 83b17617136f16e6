package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// client serializa as escritas: pong e broadcast partem de goroutines diferentes
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub gerencia conexões WebSocket e assinaturas por esporte
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	// sport -> set of clients
	subs map[string]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão
// Cada cliente pode se inscrever em vários esportes
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	c := &client{conn: conn}

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		sport := strings.ToLower(strings.TrimSpace(msg.Sport))
		switch msg.Type {
		case "subscribe":
			if sport == "" {
				continue
			}
			h.mu.Lock()
			if _, ok := h.subs[sport]; !ok {
				h.subs[sport] = make(map[*client]struct{})
			}
			h.subs[sport][c] = struct{}{}
			h.mu.Unlock()
		case "unsubscribe":
			h.remove(sport, c)
		case "ping":
			_ = c.write([]byte(`{"type":"pong"}`))
		}
	}

	h.mu.Lock()
	for sport, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, sport)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) remove(sport string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.subs[sport]; ok {
		delete(m, c)
		if len(m) == 0 {
			delete(h.subs, sport)
		}
	}
}

// Subscribers conta as conexões inscritas num esporte
func (h *Hub) Subscribers(sport string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sport])
}

// Broadcast envia a atualização aos clientes inscritos no esporte
func (h *Hub) Broadcast(update ParlayUpdate) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.subs[update.Sport]))
	for c := range h.subs[update.Sport] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	b, _ := json.Marshal(update)
	for _, c := range targets {
		_ = c.write(b)
	}
}
