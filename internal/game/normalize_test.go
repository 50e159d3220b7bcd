// internal/game/normalize_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGuess(t *testing.T) {
	assert.Equal(t, "hund", NormalizeGuess("  Hund  "))
	assert.Equal(t, "heros", NormalizeGuess("Héros"))
	assert.Equal(t, "garcon", NormalizeGuess("garçon"))
	assert.Equal(t, "sjalvklart", NormalizeGuess("SJÄLVKLART"))
	assert.Equal(t, "week-end", NormalizeGuess("week-end"))
	assert.Equal(t, "ca va", NormalizeGuess("ça va!?"))
	assert.Equal(t, "", NormalizeGuess("!!!"))
	assert.Equal(t, "", NormalizeGuess("   "))
}

func TestNormalizeGuessEquivalence(t *testing.T) {
	// Guess and stored translation must meet in the same normal form.
	pairs := [][2]string{
		{"HÉROS", "heros"},
		{"élève", "ELEVE"},
		{"Smörgås", "smorgas"},
		{"  bien sûr ", "bien sur"},
	}
	for _, p := range pairs {
		assert.Equal(t, NormalizeGuess(p[0]), NormalizeGuess(p[1]), "%q vs %q", p[0], p[1])
	}
}
