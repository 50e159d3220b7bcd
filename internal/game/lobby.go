// internal/game/lobby.go
package game

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/motord/motord/internal/models"
	"github.com/motord/motord/internal/words"
)

// State is the lobby lifecycle state. Valid transitions:
// LOBBY -> IN_PROGRESS -> ENDED -> (play again) -> LOBBY.
type State string

const (
	StateLobby      State = "LOBBY"
	StateInProgress State = "IN_PROGRESS"
	StateEnded      State = "ENDED"
)

const (
	minDifficulty = 0
	maxDifficulty = 4
	minMaxWords   = 1
	maxMaxWords   = 100
	maxNameLen    = 32

	defaultDifficulty = 2
	defaultMaxWords   = 10
)

// Config holds per-lobby tunables fixed at creation.
type Config struct {
	// FuseDuration is how long each round's countdown runs.
	FuseDuration time.Duration
	// MaxPlayers caps the lobby size; 0 means unlimited.
	MaxPlayers int
}

// DefaultConfig mirrors the production defaults: a 30 second fuse, 8 players.
func DefaultConfig() Config {
	return Config{
		FuseDuration: 30 * time.Second,
		MaxPlayers:   8,
	}
}

// Round is the in-flight word race. Present iff the lobby is IN_PROGRESS.
type Round struct {
	Entry    words.Entry
	IssuedAt time.Time

	// seq increments per round; it guards the fuse timer and timeout hints
	// against firing for a round that has already closed.
	seq int

	// missed tracks players who already answered incorrectly this round, so
	// repeated wrong guesses don't re-trigger the penalty.
	missed map[uuid.UUID]bool
}

// GuessResult is the synchronous reply to a submit_guess request. It reflects
// the same transition as the broadcast events, never a stale view.
type GuessResult struct {
	Correct      bool `json:"correct"`
	Score        int  `json:"score"`
	PointsEarned int  `json:"points_earned,omitempty"`
	PointsLost   int  `json:"points_lost,omitempty"`
	Streak       int  `json:"streak"`
	GameEnded    bool `json:"game_ended,omitempty"`
}

// Lobby is the authoritative aggregate for one game session. All transitions
// execute under Mu: one transition completes fully (state mutation + event
// emission) before the next begins. Different lobbies share nothing mutable.
type Lobby struct {
	ID          uuid.UUID
	InviteCode  string
	HostID      uuid.UUID
	Players     []*models.Player // join order
	Difficulty  int
	MaxWords    int
	State       State
	Round       *Round
	WordHistory []RoundSummary
	CreatedAt   time.Time

	cfg      Config
	provider words.Provider
	roundSeq int

	fuseTimer *time.Timer

	// BroadcastFn delivers events to all lobby subscribers. Called while the
	// lobby lock is held, so implementations must not block; the transport
	// layer uses buffered per-connection channels.
	BroadcastFn func(Event)

	// OnRoundComplete is invoked with each appended RoundSummary and its
	// zero-based index within the current game; used to feed the round
	// journal. Must not block.
	OnRoundComplete func(int, RoundSummary)

	// OnEmpty is called after the last player leaves, typically wired to the
	// registry's RemoveLobby.
	OnEmpty func(lobbyID uuid.UUID)

	// now is the clock, overridable in tests.
	now func() time.Time

	Mu sync.Mutex
}

// NewLobby constructs a LOBBY-state lobby with the creator as sole host
// player. The invite code comes from the registry, which owns uniqueness.
func NewLobby(cfg Config, provider words.Provider, inviteCode, hostName, hostLanguage string) (*Lobby, models.Player, error) {
	if cfg.FuseDuration <= 0 {
		cfg.FuseDuration = DefaultConfig().FuseDuration
	}
	host, err := newPlayer(hostName, hostLanguage, cfg)
	if err != nil {
		return nil, models.Player{}, err
	}
	host.IsHost = true
	host.Ready = true // host is implicitly always ready

	l := &Lobby{
		ID:         uuid.New(),
		InviteCode: inviteCode,
		HostID:     host.ID,
		Players:    []*models.Player{host},
		Difficulty: defaultDifficulty,
		MaxWords:   defaultMaxWords,
		State:      StateLobby,
		CreatedAt:  time.Now(),
		cfg:        cfg,
		provider:   provider,
		now:        time.Now,
	}
	return l, *host, nil
}

func newPlayer(name, language string, cfg Config) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errValidation("player name must not be empty")
	}
	if len([]rune(name)) > maxNameLen {
		return nil, errValidation("player name must be at most %d characters", maxNameLen)
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if len(language) != 2 || language[0] < 'a' || language[0] > 'z' || language[1] < 'a' || language[1] > 'z' {
		return nil, errValidation("language must be a two-letter code")
	}
	return &models.Player{
		ID:           uuid.New(),
		Name:         name,
		Language:     language,
		JoinedAt:     time.Now(),
		FastestGuess: cfg.FuseDuration.Seconds(),
	}, nil
}

// Join adds a new player. Valid only in LOBBY state.
func (l *Lobby) Join(name, language string) (models.Player, error) {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.State != StateLobby {
		return models.Player{}, errInvalidState("cannot join while game is %s", l.State)
	}
	if l.cfg.MaxPlayers > 0 && len(l.Players) >= l.cfg.MaxPlayers {
		return models.Player{}, errLobbyFull("lobby is full (%d players)", l.cfg.MaxPlayers)
	}
	for _, p := range l.Players {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return models.Player{}, errValidation("player name %q already taken", strings.TrimSpace(name))
		}
	}
	p, err := newPlayer(name, language, l.cfg)
	if err != nil {
		return models.Player{}, err
	}
	l.Players = append(l.Players, p)

	snap := *p
	l.emitUnsafe(Event{Type: EventPlayerJoined, Player: &snap})
	return *p, nil
}

// SetReady sets a non-host player's ready flag. Valid only in LOBBY state;
// the host is implicitly always ready.
func (l *Lobby) SetReady(playerID uuid.UUID, ready bool) (bool, error) {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.State != StateLobby {
		return false, errInvalidState("cannot change readiness while game is %s", l.State)
	}
	p := l.playerUnsafe(playerID)
	if p == nil {
		return false, errNotFound("player %s not in lobby", playerID)
	}
	if p.IsHost {
		return true, errValidation("host is always ready")
	}
	p.Ready = ready

	l.emitUnsafe(Event{
		Type:       EventPlayerReadyChanged,
		PlayerID:   p.ID.String(),
		PlayerName: p.Name,
		Ready:      boolPtr(p.Ready),
	})
	return p.Ready, nil
}

// SetDifficulty changes the word difficulty. Host only, LOBBY state only.
func (l *Lobby) SetDifficulty(playerID uuid.UUID, difficulty int) error {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.State != StateLobby {
		return errInvalidState("cannot change difficulty while game is %s", l.State)
	}
	if l.playerUnsafe(playerID) == nil {
		return errNotFound("player %s not in lobby", playerID)
	}
	if playerID != l.HostID {
		return errNotHost("only the host can change difficulty")
	}
	if difficulty < minDifficulty || difficulty > maxDifficulty {
		return errValidation("difficulty must be between %d and %d", minDifficulty, maxDifficulty)
	}
	l.Difficulty = difficulty

	l.emitUnsafe(Event{Type: EventDifficultyChanged, Difficulty: intPtr(difficulty)})
	return nil
}

// SetMaxWords changes the round budget that ends the game. Host only, LOBBY
// state only.
func (l *Lobby) SetMaxWords(playerID uuid.UUID, maxWords int) error {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.State != StateLobby {
		return errInvalidState("cannot change max words while game is %s", l.State)
	}
	if l.playerUnsafe(playerID) == nil {
		return errNotFound("player %s not in lobby", playerID)
	}
	if playerID != l.HostID {
		return errNotHost("only the host can change max words")
	}
	if maxWords < minMaxWords || maxWords > maxMaxWords {
		return errValidation("max words must be between %d and %d", minMaxWords, maxMaxWords)
	}
	l.MaxWords = maxWords

	l.emitUnsafe(Event{Type: EventMaxWordsChanged, MaxWords: intPtr(maxWords)})
	return nil
}

// Start begins the game: resets scores, draws the first word, opens the first
// round. Host only, LOBBY state only, and every player must be ready.
func (l *Lobby) Start(playerID uuid.UUID) error {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.State != StateLobby {
		return errInvalidState("game already %s", l.State)
	}
	if l.playerUnsafe(playerID) == nil {
		return errNotFound("player %s not in lobby", playerID)
	}
	if playerID != l.HostID {
		return errNotHost("only the host can start the game")
	}
	for _, p := range l.Players {
		if !p.Ready && !p.IsHost {
			return errNotAllReady("player %s is not ready", p.Name)
		}
	}
	entry, err := l.provider.Next(l.Difficulty)
	if err != nil {
		return err
	}

	for _, p := range l.Players {
		p.Score = 0
		p.Streak = 0
		p.HighestStreak = 0
		p.FastestGuess = l.cfg.FuseDuration.Seconds()
	}
	l.State = StateInProgress
	l.WordHistory = nil
	l.openRoundUnsafe(entry)

	l.emitUnsafe(Event{
		Type:    EventGameStarted,
		Word:    wordEvent(entry),
		Players: l.playersSnapshotUnsafe(),
	})
	return nil
}

// SubmitGuess applies one guess. The guess is re-validated against the
// *current* round's word at apply time: a correct answer for a round that has
// already closed simply no longer matches and counts as incorrect.
func (l *Lobby) SubmitGuess(playerID uuid.UUID, text string) (GuessResult, error) {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.State != StateInProgress {
		return GuessResult{}, errInvalidState("no game in progress")
	}
	p := l.playerUnsafe(playerID)
	if p == nil {
		return GuessResult{}, errNotFound("player %s not in lobby", playerID)
	}
	if strings.TrimSpace(text) == "" {
		return GuessResult{}, errValidation("guess must not be empty")
	}

	guess := NormalizeGuess(text)
	correct := false
	for _, accepted := range l.Round.Entry.Accepted(p.Language) {
		if guess != "" && guess == NormalizeGuess(accepted) {
			correct = true
			break
		}
	}

	if !correct {
		p.Streak = 0
		pointsLost := 0
		if !l.Round.missed[p.ID] {
			l.Round.missed[p.ID] = true
			pointsLost = IncorrectGuessPenalty
			p.Score -= pointsLost
			if p.Score < 0 {
				p.Score = 0
			}
		}
		l.emitUnsafe(Event{
			Type:       EventTranslationIncorrect,
			PlayerID:   p.ID.String(),
			PlayerName: p.Name,
			Score:      intPtr(p.Score),
			PointsLost: intPtr(pointsLost),
			Streak:     intPtr(p.Streak),
		})
		return GuessResult{Correct: false, Score: p.Score, PointsLost: pointsLost, Streak: p.Streak}, nil
	}

	elapsed := l.now().Sub(l.Round.IssuedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	fuseMax := l.cfg.FuseDuration.Seconds()
	points, timeBonus, mult := ScoreCorrectGuess(elapsed, fuseMax, p.Streak)

	p.Streak++
	if p.Streak > p.HighestStreak {
		p.HighestStreak = p.Streak
	}
	if elapsed < p.FastestGuess {
		p.FastestGuess = elapsed
	}
	p.Score += points

	winnerID := p.ID
	summary := RoundSummary{
		Word:         l.Round.Entry.Word,
		Translations: l.Round.Entry.Translations,
		Status:       RoundCorrect,
		WinnerID:     &winnerID,
		WinnerName:   p.Name,
		TimeTaken:    floatPtr(elapsed),
		PointsEarned: points,
		TimeBonus:    timeBonus,
		StreakMult:   mult,
	}
	ended := l.closeRoundUnsafe(summary)
	res := GuessResult{Correct: true, Score: p.Score, PointsEarned: points, Streak: p.Streak, GameEnded: ended}
	if ended {
		return res, nil
	}

	l.emitUnsafe(Event{
		Type:         EventTranslationCorrect,
		PlayerID:     p.ID.String(),
		PlayerName:   p.Name,
		Score:        intPtr(p.Score),
		PointsEarned: intPtr(points),
		Streak:       intPtr(p.Streak),
		TimeBonus:    intPtr(timeBonus),
		StreakMult:   intPtr(mult),
		NewWord:      wordEvent(l.Round.Entry),
		Players:      l.playersSnapshotUnsafe(),
	})
	return res, nil
}

// Timeout applies the round-timeout transition. A client signal is only a
// hint: the call re-validates elapsed time against the server's own round
// clock, and only the first timeout per round takes effect. Returns whether
// the timeout was applied.
func (l *Lobby) Timeout(now time.Time) (bool, error) {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.State != StateInProgress {
		return false, errInvalidState("no game in progress")
	}
	if now.Sub(l.Round.IssuedAt) < l.cfg.FuseDuration {
		return false, nil // fuse has not actually elapsed; ignore the hint
	}
	l.timeoutRoundUnsafe()
	return true, nil
}

// onFuseExpired is the server's own timer callback for round seq. The seq
// guard makes late or duplicate firings no-ops.
func (l *Lobby) onFuseExpired(seq int) {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.State != StateInProgress || l.Round == nil || l.Round.seq != seq {
		return // round already closed by a correct guess or earlier timeout
	}
	l.timeoutRoundUnsafe()
}

// timeoutRoundUnsafe closes the current round as a timeout: all streaks reset,
// a TIMEOUT summary is appended, and the game either ends or moves to the
// next word. Assumes lock is held and state is IN_PROGRESS.
func (l *Lobby) timeoutRoundUnsafe() {
	for _, p := range l.Players {
		p.Streak = 0
	}
	summary := RoundSummary{
		Word:         l.Round.Entry.Word,
		Translations: l.Round.Entry.Translations,
		Status:       RoundTimeout,
	}
	if l.closeRoundUnsafe(summary) {
		return
	}
	l.emitUnsafe(Event{
		Type:    EventWordTimeout,
		NewWord: wordEvent(l.Round.Entry),
		Players: l.playersSnapshotUnsafe(),
	})
}

// closeRoundUnsafe appends the summary, then checks the game-end condition
// *before* drawing the next word, so no word is drawn for a game that just
// ended. Returns true if the game ended. Assumes lock is held.
func (l *Lobby) closeRoundUnsafe(summary RoundSummary) bool {
	l.stopFuseTimerUnsafe()
	l.WordHistory = append(l.WordHistory, summary)
	if l.OnRoundComplete != nil {
		l.OnRoundComplete(len(l.WordHistory)-1, summary)
	}

	if len(l.WordHistory) >= l.MaxWords {
		l.endGameUnsafe()
		return true
	}

	entry, err := l.provider.Next(l.Difficulty)
	if err != nil {
		// The provider is in-memory and cannot run dry mid-game; if it does
		// fail, ending the game cleanly beats a round with no word.
		l.endGameUnsafe()
		return true
	}
	l.openRoundUnsafe(entry)
	return false
}

// openRoundUnsafe issues a new word and arms the fuse timer. Assumes lock is
// held and state is IN_PROGRESS.
func (l *Lobby) openRoundUnsafe(entry words.Entry) {
	l.roundSeq++
	l.Round = &Round{
		Entry:    entry,
		IssuedAt: l.now(),
		seq:      l.roundSeq,
		missed:   make(map[uuid.UUID]bool),
	}
	seq := l.roundSeq
	l.fuseTimer = time.AfterFunc(l.cfg.FuseDuration, func() {
		l.onFuseExpired(seq)
	})
}

func (l *Lobby) stopFuseTimerUnsafe() {
	if l.fuseTimer != nil {
		l.fuseTimer.Stop()
		l.fuseTimer = nil
	}
}

// endGameUnsafe transitions to ENDED and emits the final summary. Assumes
// lock is held.
func (l *Lobby) endGameUnsafe() {
	l.stopFuseTimerUnsafe()
	l.State = StateEnded
	l.Round = nil

	winner := l.winnerUnsafe()
	ev := Event{
		Type:        EventGameEnded,
		MaxWords:    intPtr(l.MaxWords),
		WordHistory: append([]RoundSummary(nil), l.WordHistory...),
		Players:     l.playersSnapshotUnsafe(),
	}
	if winner != nil {
		ev.WinnerID = winner.ID.String()
		ev.WinnerName = winner.Name
	}
	l.emitUnsafe(ev)
}

// winnerUnsafe returns the highest-scoring player; ties go to the earliest
// joined. Assumes lock is held.
func (l *Lobby) winnerUnsafe() *models.Player {
	var best *models.Player
	for _, p := range l.Players {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best
}

// Leave removes a player in any state. The last player leaving destroys the
// lobby via OnEmpty; a departing host promotes the earliest-joined remaining
// player, who is forced ready.
func (l *Lobby) Leave(playerID uuid.UUID) error {
	l.Mu.Lock()

	idx := -1
	for i, p := range l.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		l.Mu.Unlock()
		return errNotFound("player %s not in lobby", playerID)
	}
	left := l.Players[idx]
	l.Players = append(l.Players[:idx], l.Players[idx+1:]...)

	if len(l.Players) == 0 {
		// The fuse timer may have fired already, with its callback waiting on
		// the lock; close the lobby so the callback finds nothing to do.
		l.stopFuseTimerUnsafe()
		l.State = StateEnded
		l.Round = nil
		onEmpty := l.OnEmpty
		l.Mu.Unlock()
		if onEmpty != nil {
			onEmpty(l.ID)
		}
		return nil
	}

	ev := Event{
		Type:       EventPlayerLeft,
		PlayerID:   left.ID.String(),
		PlayerName: left.Name,
	}
	if left.IsHost {
		next := l.Players[0]
		next.IsHost = true
		next.Ready = true
		l.HostID = next.ID
		ev.NewHostID = next.ID.String()
	}
	l.emitUnsafe(ev)
	l.Mu.Unlock()
	return nil
}

// PlayAgain resets an ENDED lobby back to LOBBY for another game. Host only.
func (l *Lobby) PlayAgain(playerID uuid.UUID) error {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.State != StateEnded {
		return errInvalidState("game is not over")
	}
	if l.playerUnsafe(playerID) == nil {
		return errNotFound("player %s not in lobby", playerID)
	}
	if playerID != l.HostID {
		return errNotHost("only the host can restart the game")
	}

	for _, p := range l.Players {
		p.Score = 0
		p.Streak = 0
		p.HighestStreak = 0
		p.FastestGuess = l.cfg.FuseDuration.Seconds()
		p.Ready = p.IsHost
	}
	l.WordHistory = nil
	l.Round = nil
	l.State = StateLobby

	l.emitUnsafe(Event{Type: EventPlayAgain, Players: l.playersSnapshotUnsafe()})
	return nil
}

// Snapshot is a JSON-ready copy of the lobby for synchronous replies.
type Snapshot struct {
	ID          uuid.UUID       `json:"id"`
	HostID      uuid.UUID       `json:"host_id"`
	InviteCode  string          `json:"invite_code"`
	Difficulty  int             `json:"difficulty"`
	MaxWords    int             `json:"max_words"`
	State       State           `json:"state"`
	Players     []models.Player `json:"players"`
	CreatedAt   time.Time       `json:"created_at"`
	CurrentWord *EventWord      `json:"current_word,omitempty"`
}

// Snapshot returns a consistent copy of the lobby's public state.
func (l *Lobby) Snapshot() Snapshot {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	s := Snapshot{
		ID:         l.ID,
		HostID:     l.HostID,
		InviteCode: l.InviteCode,
		Difficulty: l.Difficulty,
		MaxWords:   l.MaxWords,
		State:      l.State,
		Players:    l.playersSnapshotUnsafe(),
		CreatedAt:  l.CreatedAt,
	}
	if l.Round != nil {
		s.CurrentWord = wordEvent(l.Round.Entry)
	}
	return s
}

// HasPlayer reports whether the given player id belongs to this lobby.
func (l *Lobby) HasPlayer(playerID uuid.UUID) bool {
	l.Mu.Lock()
	defer l.Mu.Unlock()
	return l.playerUnsafe(playerID) != nil
}

// playerUnsafe finds a player by id. Assumes lock is held.
func (l *Lobby) playerUnsafe(playerID uuid.UUID) *models.Player {
	for _, p := range l.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// playersSnapshotUnsafe copies player values in join order. Assumes lock is
// held.
func (l *Lobby) playersSnapshotUnsafe() []models.Player {
	out := make([]models.Player, len(l.Players))
	for i, p := range l.Players {
		out[i] = *p
	}
	return out
}

func (l *Lobby) emitUnsafe(ev Event) {
	if l.BroadcastFn != nil {
		l.BroadcastFn(ev)
	}
}

func wordEvent(entry words.Entry) *EventWord {
	return &EventWord{
		Word:         entry.Word,
		Language:     entry.Language,
		Translations: entry.Translations,
	}
}
