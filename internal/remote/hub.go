package remote

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// viewerConn is one subscribed websocket viewer.
type viewerConn struct {
	presentationID string
	conn           *websocket.Conn
	send           chan []byte
}

// Hub fans shared-state updates out to the viewers subscribed to each
// presentation. Viewers receive target state snapshots only, never
// per-tick camera frames.
type Hub struct {
	register   chan *viewerConn
	unregister chan *viewerConn
	broadcast  chan broadcastMsg

	mu      sync.RWMutex
	viewers map[string]map[*viewerConn]bool // presentationID -> conns
}

type broadcastMsg struct {
	presentationID string
	payload        []byte
}

// NewHub creates a hub. Call Run in its own goroutine before use.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *viewerConn),
		unregister: make(chan *viewerConn),
		broadcast:  make(chan broadcastMsg, 64),
		viewers:    make(map[string]map[*viewerConn]bool),
	}
}

// Run processes subscriptions and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case v := <-h.register:
			h.mu.Lock()
			if h.viewers[v.presentationID] == nil {
				h.viewers[v.presentationID] = make(map[*viewerConn]bool)
			}
			h.viewers[v.presentationID][v] = true
			count := len(h.viewers[v.presentationID])
			h.mu.Unlock()
			log.Printf("[*] Viewer joined presentation %s (%d watching)", v.presentationID, count)

		case v := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.viewers[v.presentationID]; ok {
				if conns[v] {
					delete(conns, v)
					close(v.send)
				}
				if len(conns) == 0 {
					delete(h.viewers, v.presentationID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for v := range h.viewers[msg.presentationID] {
				select {
				case v.send <- msg.payload:
				default:
					// Slow consumer: drop the update, the next one
					// carries the latest target state anyway.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues a shared-state snapshot for every viewer of the
// presentation.
func (h *Hub) Broadcast(presentationID string, state *SharedState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("[!] Failed to marshal shared state: %v", err)
		return
	}
	h.broadcast <- broadcastMsg{presentationID: presentationID, payload: payload}
}

// ViewerCount returns the number of viewers currently subscribed.
func (h *Hub) ViewerCount(presentationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers[presentationID])
}

// serve attaches a websocket connection to the hub and pumps messages
// until the peer goes away.
func (h *Hub) serve(v *viewerConn) {
	h.register <- v
	go v.writePump()
	v.readPump(h)
}

func (v *viewerConn) readPump(h *Hub) {
	defer func() {
		h.unregister <- v
		v.conn.Close()
	}()

	v.conn.SetReadLimit(maxMessageSize)
	v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		v.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Viewers are read-only: inbound messages are drained and
		// ignored, writes go through the HTTP API with identity checks.
		if _, _, err := v.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (v *viewerConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-v.send:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				v.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := v.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
