// internal/handlers/hub.go
package handlers

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/motord/motord/internal/game"
)

// Subscriber is one live event-stream connection to a lobby. Events are
// delivered through a buffered channel; the write pump drains it onto the
// WebSocket.
type Subscriber struct {
	// PlayerID is the player this connection is bound to, or uuid.Nil for an
	// unbound (spectating) connection.
	PlayerID uuid.UUID
	Out      chan game.Event

	mu     sync.Mutex
	closed bool
}

// write pushes an event onto the subscriber's channel non-blockingly. A full
// or already-closed channel drops the event rather than stalling the
// transition that produced it.
func (s *Subscriber) write(logger *logrus.Logger, ev game.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.Out <- ev:
	default:
		logger.WithFields(logrus.Fields{
			"player": s.PlayerID,
			"event":  ev.Type,
		}).Warn("subscriber channel full; dropping event")
	}
}

// closeOut closes the channel exactly once so the write pump exits.
func (s *Subscriber) closeOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.Out)
	}
}

// Hub fans lobby events out to that lobby's subscribers. Events arrive from
// inside a lobby transition (the lobby lock is held), so delivery is strictly
// in transition order and must never block.
type Hub struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]map[*Subscriber]struct{}
	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		subs:   make(map[uuid.UUID]map[*Subscriber]struct{}),
		logger: logger,
	}
}

// Attach wires a lobby's BroadcastFn to this hub. Called once per lobby, at
// creation, before any subscriber exists.
func (h *Hub) Attach(l *game.Lobby) {
	lobbyID := l.ID
	l.BroadcastFn = func(ev game.Event) {
		h.Broadcast(lobbyID, ev)
	}
}

// Broadcast delivers an event to every subscriber of the lobby.
func (h *Hub) Broadcast(lobbyID uuid.UUID, ev game.Event) {
	h.mu.Lock()
	set := make([]*Subscriber, 0, len(h.subs[lobbyID]))
	for s := range h.subs[lobbyID] {
		set = append(set, s)
	}
	h.mu.Unlock()

	for _, s := range set {
		s.write(h.logger, ev)
	}
}

// Subscribe registers a new event-stream connection for a lobby.
func (h *Hub) Subscribe(lobbyID, playerID uuid.UUID) *Subscriber {
	s := &Subscriber{
		PlayerID: playerID,
		Out:      make(chan game.Event, 32),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[lobbyID] == nil {
		h.subs[lobbyID] = make(map[*Subscriber]struct{})
	}
	h.subs[lobbyID][s] = struct{}{}
	return s
}

// Unsubscribe removes a connection and closes its channel so the write pump
// exits.
func (h *Hub) Unsubscribe(lobbyID uuid.UUID, s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[lobbyID]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, lobbyID)
	}
	s.closeOut()
}

// DropLobby detaches every subscriber of a destroyed lobby.
func (h *Hub) DropLobby(lobbyID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[lobbyID] {
		s.closeOut()
	}
	delete(h.subs, lobbyID)
}
