// internal/game/events.go
package game

import (
	"github.com/google/uuid"

	"github.com/motord/motord/internal/models"
)

// EventType is an enum-like type for lobby broadcast events. One value per
// state-machine transition; failed transitions emit nothing.
type EventType string

const (
	EventPlayerJoined         EventType = "player_joined"
	EventPlayerLeft           EventType = "player_left"
	EventPlayerReadyChanged   EventType = "player_ready_changed"
	EventDifficultyChanged    EventType = "difficulty_changed"
	EventMaxWordsChanged      EventType = "max_words_changed"
	EventGameStarted          EventType = "game_started"
	EventTranslationCorrect   EventType = "translation_correct"
	EventTranslationIncorrect EventType = "translation_incorrect"
	EventWordTimeout          EventType = "word_timeout"
	EventGameEnded            EventType = "game_ended"
	EventPlayAgain            EventType = "play_again"
	EventChat                 EventType = "chat"
)

// EventWord is the word-facing slice of an event payload: the active word and
// every translation, so any client can render the round without a follow-up
// request.
type EventWord struct {
	Word         string            `json:"word"`
	Language     string            `json:"language"`
	Translations map[string]string `json:"translations"`
}

// RoundStatus tags how a round ended.
type RoundStatus string

const (
	RoundCorrect RoundStatus = "correct"
	RoundTimeout RoundStatus = "timeout"
)

// RoundSummary records one completed round. Immutable once appended to the
// lobby's word history.
type RoundSummary struct {
	Word         string            `json:"word"`
	Translations map[string]string `json:"translations"`
	Status       RoundStatus       `json:"status"`
	WinnerID     *uuid.UUID        `json:"winner_id,omitempty"`
	WinnerName   string            `json:"winner,omitempty"`
	TimeTaken    *float64          `json:"time_taken,omitempty"`
	PointsEarned int               `json:"points_earned,omitempty"`
	TimeBonus    int               `json:"time_bonus,omitempty"`
	StreakMult   int               `json:"streak_multiplier,omitempty"`
}

// Event is a single broadcast message produced by a lobby transition. Fields
// are optional per event type; each event carries enough state for clients to
// update without issuing another request.
type Event struct {
	Type EventType `json:"type"`

	Player     *models.Player `json:"player,omitempty"`
	PlayerID   string         `json:"player_id,omitempty"`
	PlayerName string         `json:"player_name,omitempty"`
	NewHostID  string         `json:"new_host_id,omitempty"`

	Ready      *bool `json:"ready,omitempty"`
	Difficulty *int  `json:"difficulty,omitempty"`
	MaxWords   *int  `json:"max_words,omitempty"`

	Word    *EventWord `json:"word,omitempty"`
	NewWord *EventWord `json:"new_word,omitempty"`

	Score        *int `json:"score,omitempty"`
	PointsEarned *int `json:"points_earned,omitempty"`
	PointsLost   *int `json:"points_lost,omitempty"`
	Streak       *int `json:"streak,omitempty"`
	TimeBonus    *int `json:"time_bonus,omitempty"`
	StreakMult   *int `json:"streak_multiplier,omitempty"`

	WinnerID    string         `json:"winner_id,omitempty"`
	WinnerName  string         `json:"winner,omitempty"`
	WordHistory []RoundSummary `json:"word_history,omitempty"`

	Players []models.Player `json:"players,omitempty"`

	Message string `json:"message,omitempty"`
}

func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }
