package app

import (
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/gemrelay/internal/transport/http/handler"
	"github.com/mandalnilabja/gemrelay/internal/transport/http/middleware"
)

// Relay routes. The Netlify path keeps frontends built for the original
// function deployment working unchanged.
const (
	RelayPath   = "/api/gemini"
	NetlifyPath = "/.netlify/functions/gemini"
	HealthPath  = "/api/health"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger        *slog.Logger
	AllowedOrigin string
}

// NewRouter creates and configures the HTTP router with all application routes.
// Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Registered without a method: the relay answers 405 itself.
	mux.HandleFunc(RelayPath, repo.Proxy.Generate)
	mux.HandleFunc(NetlifyPath, repo.Proxy.Generate)

	mux.HandleFunc("GET "+HealthPath, repo.Infra.HealthCheck)
	mux.HandleFunc("GET /{$}", repo.Infra.RootStatus)

	return withMiddleware(mux, opts)
}

// NewFunctionRouter is the router for a single serverless function. The
// platform decides which paths reach the function, so every path except
// health goes to the relay.
func NewFunctionRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+HealthPath, repo.Infra.HealthCheck)
	mux.HandleFunc("/", repo.Proxy.Generate)

	return withMiddleware(mux, opts)
}

func withMiddleware(h http.Handler, opts *RouterOptions) http.Handler {
	if opts == nil {
		opts = &RouterOptions{}
	}

	// Apply middleware chain (order: outer to inner)
	if opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}

	h = middleware.RequestID(h)

	h = middleware.CORS(opts.AllowedOrigin)(h)

	return h
}
