// internal/registry/registry.go
package registry

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/motord/motord/internal/game"
	"github.com/motord/motord/internal/models"
	"github.com/motord/motord/internal/words"
)

// Registry maps lobby ids to live lobbies. It is the only component that
// creates or destroys a Lobby. Its mutex is independent of per-lobby locks:
// registry operations never call into a lobby while holding it.
type Registry struct {
	mu      sync.Mutex
	lobbies map[uuid.UUID]*game.Lobby
	byCode  map[string]uuid.UUID

	cfg      game.Config
	provider words.Provider
}

// New builds an empty registry. Lobbies it creates share cfg and the word
// provider.
func New(cfg game.Config, provider words.Provider) *Registry {
	return &Registry{
		lobbies:  make(map[uuid.UUID]*game.Lobby),
		byCode:   make(map[string]uuid.UUID),
		cfg:      cfg,
		provider: provider,
	}
}

// CreateLobby constructs a lobby with the creator as host, registers it, and
// wires its OnEmpty callback to RemoveLobby.
func (r *Registry) CreateLobby(hostName, hostLanguage string) (*game.Lobby, models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.newInviteCodeUnsafe()
	l, host, err := game.NewLobby(r.cfg, r.provider, code, hostName, hostLanguage)
	if err != nil {
		return nil, models.Player{}, err
	}
	l.OnEmpty = func(id uuid.UUID) {
		r.RemoveLobby(id)
	}
	r.lobbies[l.ID] = l
	r.byCode[code] = l.ID
	return l, host, nil
}

// GetLobby retrieves a lobby by id.
func (r *Registry) GetLobby(id uuid.UUID) (*game.Lobby, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lobbies[id]
	return l, ok
}

// GetLobbyByCode retrieves a lobby by its invite code (case-insensitive).
func (r *Registry) GetLobbyByCode(code string) (*game.Lobby, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, false
	}
	l, ok := r.lobbies[id]
	return l, ok
}

// RemoveLobby deletes a lobby and its invite code. Idempotent; typically
// invoked through the lobby's OnEmpty callback.
func (r *Registry) RemoveLobby(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lobbies[id]
	if !ok {
		return
	}
	delete(r.lobbies, id)
	delete(r.byCode, l.InviteCode)
}

// Len reports how many lobbies are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lobbies)
}

// newInviteCodeUnsafe derives a 6-character shareable code, re-rolling on the
// (unlikely) collision with a live lobby. Assumes lock is held.
func (r *Registry) newInviteCodeUnsafe() string {
	for {
		code := strings.ToUpper(uuid.NewString()[:6])
		if _, taken := r.byCode[code]; !taken {
			return code
		}
	}
}
