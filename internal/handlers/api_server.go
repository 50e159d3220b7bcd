// internal/handlers/api_server.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/motord/motord/internal/auth"
	"github.com/motord/motord/internal/game"
	"github.com/motord/motord/internal/journal"
	"github.com/motord/motord/internal/registry"
)

// APIServer bundles everything the HTTP and WebSocket handlers need: the
// session registry, the event hub, and the optional round journal.
type APIServer struct {
	Registry *registry.Registry
	Hub      *Hub
	Journal  *journal.Journal
	Logger   *logrus.Logger
}

func NewAPIServer(reg *registry.Registry, hub *Hub, jrnl *journal.Journal, logger *logrus.Logger) *APIServer {
	return &APIServer{
		Registry: reg,
		Hub:      hub,
		Journal:  jrnl,
		Logger:   logger,
	}
}

// PingHandler answers liveness checks.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "motord game-state service"})
}

// respondJSON writes v as the JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps a game error kind onto an HTTP status and writes a
// machine-readable error body. Unclassified errors become 500s.
func (s *APIServer) respondError(w http.ResponseWriter, err error) {
	kind := game.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case game.KindNotFound:
		status = http.StatusNotFound
	case game.KindInvalidState, game.KindLobbyFull:
		status = http.StatusConflict
	case game.KindNotHost:
		status = http.StatusForbidden
	case game.KindNotAllReady, game.KindValidation:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.Logger.WithError(err).Error("unclassified handler error")
		respondJSON(w, status, map[string]string{"error": "internal", "message": "internal error"})
		return
	}
	respondJSON(w, status, map[string]string{"error": string(kind), "message": err.Error()})
}

// lobbyFromPath resolves the {id} path value, accepting either a lobby UUID
// or an invite code.
func (s *APIServer) lobbyFromPath(w http.ResponseWriter, r *http.Request) (*game.Lobby, bool) {
	raw := strings.TrimSpace(r.PathValue("id"))
	if id, err := uuid.Parse(raw); err == nil {
		if l, ok := s.Registry.GetLobby(id); ok {
			return l, true
		}
	} else if l, ok := s.Registry.GetLobbyByCode(raw); ok {
		return l, true
	}
	respondJSON(w, http.StatusNotFound, map[string]string{"error": string(game.KindNotFound), "message": "lobby not found"})
	return nil, false
}

// authorizedPlayer verifies that the request's bearer token vouches for
// playerID. Writes the failure response itself when not.
func (s *APIServer) authorizedPlayer(w http.ResponseWriter, r *http.Request, playerID uuid.UUID) bool {
	tok := bearerToken(r)
	if tok == "" {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "missing player token"})
		return false
	}
	sub, err := auth.VerifyPlayerToken(tok)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "invalid player token"})
		return false
	}
	if sub != playerID {
		respondJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden", "message": "token does not match player"})
		return false
	}
	return true
}

// bearerToken extracts the token from the Authorization header, or falls back
// to a "token" query parameter (used by the WebSocket endpoint).
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

// journalRound returns the OnRoundComplete callback for a lobby, feeding the
// Redis journal without blocking the transition that produced the summary.
// The index restarts at 0 for each game played in the lobby.
func (s *APIServer) journalRound(lobbyID uuid.UUID) func(int, game.RoundSummary) {
	if s.Journal == nil {
		return nil
	}
	return func(roundIdx int, sum game.RoundSummary) {
		rec := journal.RoundRecord{
			LobbyID:   lobbyID,
			RoundIdx:  roundIdx,
			Summary:   sum,
			Timestamp: time.Now().Unix(),
		}
		go func() {
			if err := s.Journal.PublishRound(context.Background(), rec); err != nil {
				s.Logger.WithError(err).Warn("failed to journal round")
			}
		}()
	}
}
