package server

import (
	"sync"

	"github.com/google/uuid"

	"Hearthlight/internal/dialogue"
)

// Session is one connection's conversation.
type Session struct {
	ID     string
	Engine *dialogue.Engine
}

// Hub owns the current dialogue store and every live session.
type Hub struct {
	Sessions map[string]*Session
	Mu       sync.Mutex
	store    dialogue.Store
}

func NewHub(store dialogue.Store) *Hub {
	return &Hub{Sessions: map[string]*Session{}, store: store}
}

// Open creates a session over the hub's current store.
func (h *Hub) Open() *Session {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	s := &Session{
		ID:     uuid.NewString(),
		Engine: dialogue.NewEngine(h.store),
	}
	h.Sessions[s.ID] = s
	return s
}

func (h *Hub) Close(id string) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	delete(h.Sessions, id)
}

// Store returns the store new sessions are opened with.
func (h *Hub) Store() dialogue.Store {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return h.store
}

// Reload swaps the store for the hub and every open session. Conversations
// in progress keep their active node; their next choice resolves against
// the new content.
func (h *Hub) Reload(store dialogue.Store) int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	h.store = store
	for _, s := range h.Sessions {
		s.Engine.Load(store)
	}
	return len(h.Sessions)
}

func (h *Hub) SessionCount() int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return len(h.Sessions)
}
