// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mlevan/scrawl/internal/auth"
	"github.com/mlevan/scrawl/internal/config"
	"github.com/mlevan/scrawl/internal/handlers"
	"github.com/mlevan/scrawl/internal/middleware"
	"github.com/mlevan/scrawl/internal/room"
	"github.com/mlevan/scrawl/internal/session"
	"github.com/mlevan/scrawl/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	if err := auth.Init(); err != nil {
		log.Fatalf("auth init failed: %v", err)
	}

	cfg := config.Load()

	st, err := store.NewRedisStore(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}

	var words *session.WordList
	if cfg.WordsFile != "" {
		list, err := session.LoadWordList(cfg.WordsFile)
		if err != nil {
			log.Fatalf("word list load failed: %v", err)
		}
		words = session.NewWordList(list)
		logger.Infof("loaded %d words from %s", len(list), cfg.WordsFile)
	}

	rooms := room.NewRegistry()
	coord := session.New(st, rooms, cfg, logger, words)

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, coord, rooms),
	)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	logger.Infof("Running on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
