package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/crazyroad-go/internal/services/game"
	"github.com/mcoot/crazyroad-go/internal/ws"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	Hub            *ws.Hub
	StaticDir      string
}

// NewRouter builds the HTTP surface: the websocket endpoint, a small
// read-only JSON API, a liveness probe, and the static game client.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(recoveryMiddleware(cfg.Logger))
	r.Use(loggingMiddleware(cfg.Logger))

	r.HandleFunc("/healthz", handleHealth(cfg)).Methods(http.MethodGet)
	r.HandleFunc("/api/leaderboard", handleLeaderboard(cfg)).Methods(http.MethodGet)
	r.HandleFunc("/api/scoreboard", handleScoreboard(cfg)).Methods(http.MethodGet)
	r.HandleFunc("/ws", ws.ServeWS(cfg.Hub, cfg.GameController, cfg.Logger))

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))

	return r
}

func handleHealth(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, cfg.Logger, map[string]any{
			"status":     "ok",
			"players":    cfg.GameController.PlayerCount(),
			"difficulty": cfg.GameController.Difficulty(),
		})
	}
}

func handleLeaderboard(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, cfg.Logger, cfg.GameController.Leaderboard())
	}
}

func handleScoreboard(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, cfg.Logger, cfg.GameController.ScoreBoard())
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write response", slog.String("error", err.Error()))
	}
}
