// internal/words/file.go
package words

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// wordRecord matches one line of the JSONL wordlist format. Alternates map a
// language code to additional accepted translations.
type wordRecord struct {
	Word          string              `json:"word"`
	Difficulty    int                 `json:"difficulty"`
	TranslationSV string              `json:"translation_sv"`
	TranslationFR string              `json:"translation_fr"`
	Alternates    map[string][]string `json:"alternates"`
}

// LoadFile reads a JSONL wordlist (first line is a header and is skipped)
// and returns a ready List provider. Lines that fail to parse or carry no
// word are skipped rather than aborting the load.
func LoadFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open wordlist: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			continue // header
		}
		if line == "" {
			continue
		}
		var rec wordRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec.Word == "" {
			continue
		}
		entries = append(entries, recordToEntry(rec))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read wordlist: %w", err)
	}
	return NewList(entries)
}

func recordToEntry(rec wordRecord) Entry {
	e := Entry{
		Word:       rec.Word,
		Language:   "en",
		Difficulty: rec.Difficulty,
		Translations: map[string]string{
			"sv": rec.TranslationSV,
			"fr": rec.TranslationFR,
		},
	}
	for lang, alts := range rec.Alternates {
		for _, alt := range alts {
			if strings.TrimSpace(alt) == "" {
				continue
			}
			if e.Alternates == nil {
				e.Alternates = make(map[string][]string, len(rec.Alternates))
			}
			e.Alternates[lang] = append(e.Alternates[lang], alt)
		}
	}
	return normalizeEntry(e)
}
