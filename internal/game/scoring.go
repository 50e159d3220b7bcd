// internal/game/scoring.go
package game

// Scoring constants. Base points are awarded for any correct guess before the
// fuse expires; the time bonus decays linearly to zero at the fuse max; the
// streak multiplier kicks in from the second consecutive correct answer and
// caps at MaxStreakMultiplier.
const (
	BasePoints          = 100
	TimeBonusCap        = 100
	MaxStreakMultiplier = 10
	minMultiplierStreak = 2

	// IncorrectGuessPenalty is deducted once per player per round for a wrong
	// guess; scores never go below zero.
	IncorrectGuessPenalty = 10
)

// TimeBonus returns the bonus for a correct guess after elapsed seconds of a
// fuse lasting fuseMax seconds. Monotonically non-increasing in elapsed, at
// most TimeBonusCap, and exactly zero at the fuse max.
func TimeBonus(elapsed, fuseMax float64) int {
	if fuseMax <= 0 || elapsed >= fuseMax {
		return 0
	}
	if elapsed <= 0 {
		return TimeBonusCap
	}
	return int(TimeBonusCap * (1 - elapsed/fuseMax))
}

// StreakMultiplier returns the multiplier for a streak value *after* the
// current correct guess. Streaks below minMultiplierStreak earn no multiplier.
func StreakMultiplier(streak int) int {
	if streak < minMultiplierStreak {
		return 1
	}
	if streak > MaxStreakMultiplier {
		return MaxStreakMultiplier
	}
	return streak
}

// ScoreCorrectGuess computes the points for a correct guess. streakBefore is
// the player's streak prior to this guess; the multiplier applies to the
// streak value after it. Pure and deterministic.
func ScoreCorrectGuess(elapsed, fuseMax float64, streakBefore int) (points, timeBonus, streakMultiplier int) {
	timeBonus = TimeBonus(elapsed, fuseMax)
	streakMultiplier = StreakMultiplier(streakBefore + 1)
	points = BasePoints*streakMultiplier + timeBonus
	return points, timeBonus, streakMultiplier
}
