// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/motord/motord/internal/auth"
	"github.com/motord/motord/internal/game"
)

type createLobbyRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

type createLobbyResponse struct {
	LobbyID    uuid.UUID     `json:"lobby_id"`
	PlayerID   uuid.UUID     `json:"player_id"`
	InviteCode string        `json:"invite_code"`
	Token      string        `json:"token"`
	Lobby      game.Snapshot `json:"lobby"`
}

// CreateLobbyHandler creates a lobby with the caller as host and mints the
// host's player token.
func (s *APIServer) CreateLobbyHandler(w http.ResponseWriter, r *http.Request) {
	var req createLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": string(game.KindValidation), "message": "invalid JSON body"})
		return
	}

	l, host, err := s.Registry.CreateLobby(req.Name, req.Language)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.wireLobby(l)

	token, err := auth.CreatePlayerToken(host.ID)
	if err != nil {
		s.Logger.WithError(err).Error("failed to mint player token")
		s.Registry.RemoveLobby(l.ID)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal", "message": "failed to create session"})
		return
	}

	s.Logger.WithFields(logrus.Fields{
		"lobby_id":    l.ID,
		"invite_code": l.InviteCode,
		"host":        host.Name,
	}).Info("lobby created")

	respondJSON(w, http.StatusCreated, createLobbyResponse{
		LobbyID:    l.ID,
		PlayerID:   host.ID,
		InviteCode: l.InviteCode,
		Token:      token,
		Lobby:      l.Snapshot(),
	})
}

// wireLobby attaches the broadcast hub and the round journal to a freshly
// created lobby, and chains hub cleanup onto the registry's OnEmpty.
func (s *APIServer) wireLobby(l *game.Lobby) {
	s.Hub.Attach(l)
	l.OnRoundComplete = s.journalRound(l.ID)

	removeFromRegistry := l.OnEmpty
	l.OnEmpty = func(id uuid.UUID) {
		if removeFromRegistry != nil {
			removeFromRegistry(id)
		}
		s.Hub.DropLobby(id)
		s.Logger.WithField("lobby_id", id).Info("lobby emptied, removed")
	}
}

// GetLobbyHandler returns the lobby snapshot. The {id} segment accepts a
// lobby UUID or an invite code.
func (s *APIServer) GetLobbyHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobbyFromPath(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, l.Snapshot())
}

type joinLobbyRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

type joinLobbyResponse struct {
	PlayerID uuid.UUID     `json:"player_id"`
	Token    string        `json:"token"`
	Lobby    game.Snapshot `json:"lobby"`
}

func (s *APIServer) JoinLobbyHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobbyFromPath(w, r)
	if !ok {
		return
	}
	var req joinLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": string(game.KindValidation), "message": "invalid JSON body"})
		return
	}

	player, err := l.Join(req.Name, req.Language)
	if err != nil {
		s.respondError(w, err)
		return
	}

	token, err := auth.CreatePlayerToken(player.ID)
	if err != nil {
		s.Logger.WithError(err).Error("failed to mint player token")
		_ = l.Leave(player.ID)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal", "message": "failed to create session"})
		return
	}

	respondJSON(w, http.StatusOK, joinLobbyResponse{
		PlayerID: player.ID,
		Token:    token,
		Lobby:    l.Snapshot(),
	})
}

type playerActionRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
}

// decodePlayerAction reads the player_id body and checks the bearer token
// against it.
func (s *APIServer) decodePlayerAction(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var req playerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == uuid.Nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": string(game.KindValidation), "message": "player_id is required"})
		return uuid.Nil, false
	}
	if !s.authorizedPlayer(w, r, req.PlayerID) {
		return uuid.Nil, false
	}
	return req.PlayerID, true
}

type setReadyRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
	Ready    bool      `json:"ready"`
}

func (s *APIServer) SetReadyHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobbyFromPath(w, r)
	if !ok {
		return
	}
	var req setReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == uuid.Nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": string(game.KindValidation), "message": "player_id is required"})
		return
	}
	if !s.authorizedPlayer(w, r, req.PlayerID) {
		return
	}
	ready, err := l.SetReady(req.PlayerID, req.Ready)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ready": ready})
}

type setDifficultyRequest struct {
	PlayerID   uuid.UUID `json:"player_id"`
	Difficulty int       `json:"difficulty"`
}

func (s *APIServer) SetDifficultyHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobbyFromPath(w, r)
	if !ok {
		return
	}
	var req setDifficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == uuid.Nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": string(game.KindValidation), "message": "player_id is required"})
		return
	}
	if !s.authorizedPlayer(w, r, req.PlayerID) {
		return
	}
	if err := l.SetDifficulty(req.PlayerID, req.Difficulty); err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"difficulty": req.Difficulty})
}

type setMaxWordsRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
	MaxWords int       `json:"max_words"`
}

func (s *APIServer) SetMaxWordsHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobbyFromPath(w, r)
	if !ok {
		return
	}
	var req setMaxWordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == uuid.Nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": string(game.KindValidation), "message": "player_id is required"})
		return
	}
	if !s.authorizedPlayer(w, r, req.PlayerID) {
		return
	}
	if err := l.SetMaxWords(req.PlayerID, req.MaxWords); err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"max_words": req.MaxWords})
}

func (s *APIServer) StartGameHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobbyFromPath(w, r)
	if !ok {
		return
	}
	playerID, ok := s.decodePlayerAction(w, r)
	if !ok {
		return
	}
	if err := l.Start(playerID); err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, l.Snapshot())
}

type guessRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
	Guess    string    `json:"guess"`
}

func (s *APIServer) SubmitGuessHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobbyFromPath(w, r)
	if !ok {
		return
	}
	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == uuid.Nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": string(game.KindValidation), "message": "player_id is required"})
		return
	}
	if !s.authorizedPlayer(w, r, req.PlayerID) {
		return
	}
	result, err := l.SubmitGuess(req.PlayerID, req.Guess)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// TimeoutHintHandler lets a client report that the fuse looks expired. The
// lobby validates against its own clock, so a premature or duplicate hint is
// a harmless no-op.
func (s *APIServer) TimeoutHintHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobbyFromPath(w, r)
	if !ok {
		return
	}
	expired, err := l.Timeout(time.Now())
	if err != nil {
		if game.KindOf(err) == game.KindInvalidState {
			// Round already resolved; nothing to do.
			respondJSON(w, http.StatusOK, map[string]bool{"timed_out": false})
			return
		}
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"timed_out": expired})
}

func (s *APIServer) PlayAgainHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobbyFromPath(w, r)
	if !ok {
		return
	}
	playerID, ok := s.decodePlayerAction(w, r)
	if !ok {
		return
	}
	if err := l.PlayAgain(playerID); err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, l.Snapshot())
}

func (s *APIServer) LeaveLobbyHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lobbyFromPath(w, r)
	if !ok {
		return
	}
	playerID, ok := s.decodePlayerAction(w, r)
	if !ok {
		return
	}
	if err := l.Leave(playerID); err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"left": true})
}
