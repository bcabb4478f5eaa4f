package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/prezicast/internal/store"
	"github.com/ivlev/prezicast/internal/system"
)

// identityHeader carries the caller's identity. Authentication itself is
// an external concern; the engine only needs a stable identity string to
// enforce the single-writer rule.
const identityHeader = "X-Prezicast-User"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking belongs to the deployment's reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler exposes the synchronization channel over HTTP and websocket.
type Handler struct {
	service *Service
	hub     *Hub
	store   *store.Store

	// publicBaseURL is the externally visible address used in viewer
	// join links and QR codes.
	publicBaseURL string
}

// NewHandler creates the HTTP surface of the sync server.
func NewHandler(service *Service, hub *Hub, st *store.Store, publicBaseURL string) *Handler {
	return &Handler{
		service:       service,
		hub:           hub,
		store:         st,
		publicBaseURL: publicBaseURL,
	}
}

// Routes builds the router for the sync server.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/presentations/{id}/state", h.GetState).Methods(http.MethodGet)
	api.HandleFunc("/presentations/{id}/state", h.UpdateState).Methods(http.MethodPut)
	api.HandleFunc("/presentations/{id}/deck", h.GetDeck).Methods(http.MethodGet)
	api.HandleFunc("/presentations/{id}/deck", h.UpdateDeck).Methods(http.MethodPut)
	api.HandleFunc("/presentations/{id}/join.png", h.JoinQR).Methods(http.MethodGet)

	r.HandleFunc("/ws/presentations/{id}", h.Subscribe)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	return r
}

func identity(r *http.Request) string {
	return r.Header.Get(identityHeader)
}

// GetState returns the shared navigation state of a presentation.
// GET /api/presentations/{id}/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	state, err := h.service.State(id, identity(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, state)
}

// UpdateState applies a presenter write to the shared state.
// PUT /api/presentations/{id}/state
func (h *Handler) UpdateState(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var update StateUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	state, err := h.service.Update(id, identity(r), update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, state)
}

// GetDeck returns the stored deck document as YAML.
// GET /api/presentations/{id}/deck
func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.store.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !rec.Public && identity(r) == "" {
		writeError(w, ErrForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Write(rec.Deck)
}

// UpdateDeck replaces the stored deck document. Owner only.
// PUT /api/presentations/{id}/deck
func (h *Handler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.store.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if identity(r) == "" || identity(r) != rec.OwnerID {
		writeError(w, ErrForbidden)
		return
	}

	deck, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateDeck(id, deck); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JoinQR renders a QR code image pointing viewers at the presentation.
// GET /api/presentations/{id}/join.png
func (h *Handler) JoinQR(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.store.Get(id); err != nil {
		writeError(w, err)
		return
	}

	joinURL := fmt.Sprintf("%s/watch/%s", h.publicBaseURL, id)
	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		log.Printf("[!] Failed to encode join QR for %s: %v", id, err)
		http.Error(w, "QR generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Subscribe upgrades to a websocket and streams shared-state snapshots.
// GET /ws/presentations/{id}
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	// The read path enforces access; the websocket carries the same data.
	state, err := h.service.State(id, identity(r))
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[!] Websocket upgrade failed: %v", err)
		return
	}

	v := &viewerConn{
		presentationID: id,
		conn:           conn,
		send:           make(chan []byte, 16),
	}

	// Seed the new viewer with the current target state so it can fit
	// its camera before the first presenter move.
	if payload, err := json.Marshal(state); err == nil {
		v.send <- payload
	}

	h.hub.serve(v)
}

// Health reports process and host stats.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, system.CollectStats())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrTransport):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
