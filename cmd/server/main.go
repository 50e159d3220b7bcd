// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/motord/motord/internal/auth"
	"github.com/motord/motord/internal/config"
	"github.com/motord/motord/internal/game"
	"github.com/motord/motord/internal/handlers"
	"github.com/motord/motord/internal/journal"
	"github.com/motord/motord/internal/middleware"
	"github.com/motord/motord/internal/registry"
	"github.com/motord/motord/internal/words"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := auth.Init(); err != nil {
		log.Fatalf("auth init failed: %v", err)
	}

	cfg := config.Load()

	// Word entries are loaded once at startup; gameplay never touches the
	// database or disk.
	var provider *words.List
	var err error
	if cfg.DatabaseURL != "" {
		provider, err = words.LoadPostgres(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to load wordlist from postgres: %v", err)
		}
		logger.Infof("Loaded %d words from postgres", provider.Len())
	} else {
		provider, err = words.LoadFile(cfg.WordlistFile)
		if err != nil {
			log.Fatalf("failed to load wordlist from %s: %v", cfg.WordlistFile, err)
		}
		logger.Infof("Loaded %d words from %s", provider.Len(), cfg.WordlistFile)
	}

	var jrnl *journal.Journal
	if cfg.RedisAddr != "" {
		jrnl, err = journal.Connect(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Warnf("round journal disabled: %v", err)
		} else {
			defer jrnl.Close()
			logger.Infof("Round journal connected to redis at %s", cfg.RedisAddr)
		}
	}

	gameCfg := game.Config{
		FuseDuration: cfg.FuseDuration,
		MaxPlayers:   cfg.MaxPlayers,
	}
	reg := registry.New(gameCfg, provider)
	hub := handlers.NewHub(logger)
	srv := handlers.NewAPIServer(reg, hub, jrnl, logger)

	logged := middleware.LogMiddleware(logger)

	mux := http.NewServeMux()
	mux.Handle("GET /ping", logged(http.HandlerFunc(handlers.PingHandler)))

	// lobby endpoints
	mux.Handle("POST /lobby/create", logged(http.HandlerFunc(srv.CreateLobbyHandler)))
	mux.Handle("GET /lobby/{id}", logged(http.HandlerFunc(srv.GetLobbyHandler)))
	mux.Handle("POST /lobby/{id}/join", logged(http.HandlerFunc(srv.JoinLobbyHandler)))
	mux.Handle("POST /lobby/{id}/ready", logged(http.HandlerFunc(srv.SetReadyHandler)))
	mux.Handle("POST /lobby/{id}/difficulty", logged(http.HandlerFunc(srv.SetDifficultyHandler)))
	mux.Handle("POST /lobby/{id}/max_words", logged(http.HandlerFunc(srv.SetMaxWordsHandler)))
	mux.Handle("POST /lobby/{id}/start", logged(http.HandlerFunc(srv.StartGameHandler)))
	mux.Handle("POST /lobby/{id}/guess", logged(http.HandlerFunc(srv.SubmitGuessHandler)))
	mux.Handle("POST /lobby/{id}/timeout", logged(http.HandlerFunc(srv.TimeoutHintHandler)))
	mux.Handle("POST /lobby/{id}/play_again", logged(http.HandlerFunc(srv.PlayAgainHandler)))
	mux.Handle("POST /lobby/{id}/leave", logged(http.HandlerFunc(srv.LeaveLobbyHandler)))

	// lobby ws
	mux.Handle("GET /lobby/ws/{id}", logged(http.HandlerFunc(srv.LobbyWSHandler)))

	logger.Infof("Running on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
