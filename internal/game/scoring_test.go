// internal/game/scoring_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeBonusBounds(t *testing.T) {
	assert.Equal(t, TimeBonusCap, TimeBonus(0, 30), "instant answer earns the full bonus")
	assert.Equal(t, TimeBonusCap, TimeBonus(-1, 30), "negative elapsed clamps to the full bonus")
	assert.Equal(t, 0, TimeBonus(30, 30), "bonus is exactly zero at the fuse max")
	assert.Equal(t, 0, TimeBonus(45, 30), "bonus stays zero past the fuse max")
	assert.Equal(t, 0, TimeBonus(5, 0), "a zero fuse yields no bonus")
}

func TestTimeBonusMonotonic(t *testing.T) {
	const fuse = 30.0
	prev := TimeBonus(0, fuse)
	for elapsed := 0.5; elapsed <= fuse; elapsed += 0.5 {
		cur := TimeBonus(elapsed, fuse)
		assert.LessOrEqual(t, cur, prev, "bonus must not increase with elapsed time (t=%v)", elapsed)
		assert.GreaterOrEqual(t, cur, 0)
		assert.LessOrEqual(t, cur, TimeBonusCap)
		prev = cur
	}
}

func TestStreakMultiplier(t *testing.T) {
	assert.Equal(t, 1, StreakMultiplier(0))
	assert.Equal(t, 1, StreakMultiplier(1))
	assert.Equal(t, 2, StreakMultiplier(2))
	assert.Equal(t, 5, StreakMultiplier(5))
	assert.Equal(t, MaxStreakMultiplier, StreakMultiplier(10))
	assert.Equal(t, MaxStreakMultiplier, StreakMultiplier(25))

	prev := StreakMultiplier(0)
	for streak := 1; streak <= 20; streak++ {
		cur := StreakMultiplier(streak)
		assert.GreaterOrEqual(t, cur, prev, "multiplier must not decrease with streak")
		prev = cur
	}
}

func TestScoreCorrectGuess(t *testing.T) {
	// First correct answer of a streak: no multiplier yet.
	points, bonus, mult := ScoreCorrectGuess(15, 30, 0)
	assert.Equal(t, 1, mult)
	assert.Equal(t, 50, bonus)
	assert.Equal(t, 150, points)

	// Second consecutive correct answer doubles the base.
	points, bonus, mult = ScoreCorrectGuess(15, 30, 1)
	assert.Equal(t, 2, mult)
	assert.Equal(t, 50, bonus)
	assert.Equal(t, 250, points)

	// At the fuse max the bonus vanishes but the base still pays out.
	points, bonus, mult = ScoreCorrectGuess(30, 30, 0)
	assert.Equal(t, 0, bonus)
	assert.Equal(t, BasePoints, points)
	assert.Equal(t, 1, mult)

	// Streaks past the cap stop growing the multiplier.
	points, _, mult = ScoreCorrectGuess(30, 30, 42)
	assert.Equal(t, MaxStreakMultiplier, mult)
	assert.Equal(t, BasePoints*MaxStreakMultiplier, points)
}
