// Package remote implements the synchronization channel between one
// presenter and its viewers: shared navigation state guarded by
// single-writer ownership, a websocket fan-out hub, the HTTP control
// surface, and a client with transport retry.
//
// The server is the source of truth for target state only. Viewers animate
// locally from their own previous camera state to the announced target, so
// the channel tolerates latency and jitter; it is eventually consistent,
// never frame-accurate.
package remote

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ivlev/prezicast/internal/store"
)

var (
	// ErrForbidden is returned when an identity other than the presenter
	// or owner writes presenter-only fields, or a private presentation is
	// read without identity.
	ErrForbidden = errors.New("forbidden")

	// ErrTransport marks a network or store failure during
	// synchronization. Callers retry with backoff; local editing state is
	// never affected.
	ErrTransport = errors.New("sync transport failure")
)

// SharedState is the presenter-driven state mirrored to every viewer.
type SharedState struct {
	PresentationID string   `json:"presentationId"`
	CurrentFrameID string   `json:"currentFrameId,omitempty"`
	PresenterID    string   `json:"presenterUserId,omitempty"`
	IsPresenting   bool     `json:"isPresenting"`
	Path           []string `json:"path,omitempty"`
}

// StateUpdate is a partial write to the shared state. Nil fields are left
// unchanged.
type StateUpdate struct {
	CurrentFrameID *string   `json:"currentFrameId,omitempty"`
	PresenterID    *string   `json:"presenterUserId,omitempty"`
	IsPresenting   *bool     `json:"isPresenting,omitempty"`
	Path           *[]string `json:"path,omitempty"`
}

// Service owns the authoritative shared state for all open presentations
// on this server. Writes go through the ownership check, persist to the
// store, and fan out to subscribed viewers; the single-writer rule means no
// lock is needed beyond the map guard.
type Service struct {
	store *store.Store
	hub   *Hub

	mu     sync.RWMutex
	states map[string]*SharedState
}

// NewService creates a service over a record store. hub may be nil in
// tests; updates then skip the fan-out.
func NewService(st *store.Store, hub *Hub) *Service {
	return &Service{
		store:  st,
		hub:    hub,
		states: make(map[string]*SharedState),
	}
}

// State returns the shared state of a presentation. Public presentations
// require no identity at all; private ones require one (any authenticated
// viewer may read — finer access control lives outside the engine).
func (s *Service) State(presentationID, identity string) (*SharedState, error) {
	rec, state, err := s.load(presentationID)
	if err != nil {
		return nil, err
	}
	if !rec.Public && identity == "" {
		return nil, fmt.Errorf("%w: identity required for private presentation", ErrForbidden)
	}

	s.mu.RLock()
	snap := *state
	s.mu.RUnlock()
	return &snap, nil
}

// Update applies a presenter write. Only the current presenter or the
// presentation owner may mutate presenter-only fields; anyone else gets
// ErrForbidden and the state is untouched.
func (s *Service) Update(presentationID, identity string, update StateUpdate) (*SharedState, error) {
	rec, state, err := s.load(presentationID)
	if err != nil {
		return nil, err
	}

	if !s.mayWrite(rec, state, identity) {
		return nil, fmt.Errorf("%w: %s may not drive presentation %s", ErrForbidden, identity, presentationID)
	}

	s.mu.Lock()
	if update.CurrentFrameID != nil {
		state.CurrentFrameID = *update.CurrentFrameID
	}
	if update.PresenterID != nil {
		state.PresenterID = *update.PresenterID
	}
	if update.IsPresenting != nil {
		state.IsPresenting = *update.IsPresenting
	}
	if update.Path != nil {
		state.Path = append([]string(nil), (*update.Path)...)
	}
	applied := *state
	s.mu.Unlock()

	if err := s.store.UpdateState(presentationID, applied.CurrentFrameID,
		applied.PresenterID, applied.IsPresenting, applied.Path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if s.hub != nil {
		s.hub.Broadcast(presentationID, &applied)
	}
	return &applied, nil
}

// mayWrite implements the single-writer rule: the designated presenter or
// the owner. With no presenter claimed yet, the owner is the only writer.
func (s *Service) mayWrite(rec *store.Record, state *SharedState, identity string) bool {
	if identity == "" {
		return false
	}
	if identity == rec.OwnerID {
		return true
	}
	return state.PresenterID != "" && identity == state.PresenterID
}

// load returns the record and the cached shared state, seeding the cache
// from the store on first touch.
func (s *Service) load(presentationID string) (*store.Record, *SharedState, error) {
	rec, err := s.store.Get(presentationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[presentationID]
	if !ok {
		state = &SharedState{
			PresentationID: presentationID,
			CurrentFrameID: rec.CurrentSlideID,
			PresenterID:    rec.PresenterID,
			IsPresenting:   rec.IsPresenting,
			Path:           rec.Path,
		}
		s.states[presentationID] = state
	}
	return rec, state, nil
}
