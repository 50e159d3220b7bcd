// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects the environment knobs the server reads at startup.
// Everything has a default; an empty environment yields a working server with
// the bundled wordlist and no Postgres or Redis.
type Config struct {
	// Addr is the listen address, ":8080" unless PORT is set.
	Addr string

	// FuseDuration is the per-round countdown (FUSE_SECONDS).
	FuseDuration time.Duration

	// MaxPlayers caps lobby size (MAX_PLAYERS_PER_LOBBY).
	MaxPlayers int

	// WordlistFile is the JSONL wordlist path (WORDLIST_FILE). Ignored when
	// DatabaseURL is set.
	WordlistFile string

	// DatabaseURL, when set, loads the wordlist from Postgres instead of the
	// file (DATABASE_URL).
	DatabaseURL string

	// RedisAddr enables the round journal when non-empty (REDIS_ADDR), with
	// RedisDB selecting the database index (REDIS_DB).
	RedisAddr string
	RedisDB   int
}

// Load reads the environment into a Config.
func Load() Config {
	cfg := Config{
		Addr:         ":8080",
		FuseDuration: time.Duration(getEnvInt("FUSE_SECONDS", 30)) * time.Second,
		MaxPlayers:   getEnvInt("MAX_PLAYERS_PER_LOBBY", 8),
		WordlistFile: getEnv("WORDLIST_FILE", "wordlists/efllex_wordlist_merged.jsonl"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	return cfg
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
