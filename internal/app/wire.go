// Package app wires configuration, logging, the relay and its HTTP surface.
package app

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mandalnilabja/gemrelay/internal/config"
	"github.com/mandalnilabja/gemrelay/internal/provider/gemini"
	"github.com/mandalnilabja/gemrelay/internal/relay"
	"github.com/mandalnilabja/gemrelay/internal/transport/http/handler"
)

// NewLogger builds the process logger. format is "text" or "json".
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NewRelay builds the relay for cfg. The returned source reads the key
// variable named by cfg on each call.
func NewRelay(cfg *config.Config, logger *slog.Logger) (*relay.Relay, relay.SecretSource) {
	secret := relay.EnvSecret(cfg.APIKeyEnv)
	return relay.New(gemini.NewFromConfig(cfg), secret, logger), secret
}

// NewHandler builds the full HTTP handler for cfg.
func NewHandler(cfg *config.Config, logger *slog.Logger) http.Handler {
	repo, opts := newRepo(cfg, logger)
	return NewRouter(repo, opts)
}

// NewFunctionHandler builds the handler for a serverless function deployment
// such as Vercel, where the platform maps request paths to the function.
func NewFunctionHandler(cfg *config.Config, logger *slog.Logger) http.Handler {
	repo, opts := newRepo(cfg, logger)
	return NewFunctionRouter(repo, opts)
}

func newRepo(cfg *config.Config, logger *slog.Logger) (*handler.Repo, *RouterOptions) {
	rl, secret := NewRelay(cfg, logger)
	return handler.NewRepo(rl, secret, cfg.MaxBodyBytes), &RouterOptions{
		Logger:        logger,
		AllowedOrigin: cfg.AllowedOrigin,
	}
}
