// internal/words/words.go
package words

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Entry is one word plus its translations and difficulty tag. Entries are
// value objects; once issued to a round they are never mutated.
type Entry struct {
	Word         string            `json:"word"`
	Language     string            `json:"language"`
	Difficulty   int               `json:"difficulty"`
	Translations map[string]string `json:"translations"`

	// Alternates holds additional accepted translations per language code.
	Alternates map[string][]string `json:"alternates,omitempty"`
}

// Accepted returns every translation accepted for the given language code:
// the main translation followed by any alternates. Returns nil if the entry
// has no translation for that language.
func (e Entry) Accepted(lang string) []string {
	main, ok := e.Translations[lang]
	if !ok || main == "" {
		return nil
	}
	out := make([]string, 0, 1+len(e.Alternates[lang]))
	out = append(out, main)
	out = append(out, e.Alternates[lang]...)
	return out
}

// Provider supplies words for rounds. Next must be safe for concurrent use;
// lobbies draw from a shared provider.
type Provider interface {
	Next(difficulty int) (Entry, error)
}

// List is an in-memory Provider drawing uniformly from entries whose
// difficulty does not exceed the requested one. All I/O (file or database
// loading) happens before a List is constructed, so drawing never blocks a
// lobby transition.
type List struct {
	mu      sync.Mutex
	rng     *rand.Rand
	entries []Entry
}

// NewList builds a provider over the given entries. Fails if empty.
func NewList(entries []Entry) (*List, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("words: empty wordlist")
	}
	return &List{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		entries: entries,
	}, nil
}

// Next returns a random entry with difficulty <= the requested value.
// If no entry matches, the whole list is used as fallback.
func (l *List) Next(difficulty int) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pool := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if e.Difficulty <= difficulty {
			pool = append(pool, e)
		}
	}
	if len(pool) == 0 {
		pool = l.entries
	}
	return pool[l.rng.Intn(len(pool))], nil
}

// Len reports how many entries the list holds.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// normalizeEntry lowercases the word and every translation, mirroring how the
// wordlist is displayed to clients.
func normalizeEntry(e Entry) Entry {
	e.Word = strings.ToLower(strings.TrimSpace(e.Word))
	for lang, tr := range e.Translations {
		e.Translations[lang] = strings.ToLower(strings.TrimSpace(tr))
	}
	for lang, alts := range e.Alternates {
		for i, alt := range alts {
			alts[i] = strings.ToLower(strings.TrimSpace(alt))
		}
		e.Alternates[lang] = alts
	}
	return e
}
