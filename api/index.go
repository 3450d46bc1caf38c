// Package handler is the Vercel Go runtime entry point.
package handler

import (
	"net/http"
	"os"

	"github.com/mandalnilabja/gemrelay/internal/app"
	"github.com/mandalnilabja/gemrelay/internal/config"
)

var defaultHandler http.Handler

// init runs once per cold start. Configuration comes from the project's
// environment variables; there is no config file on Vercel.
func init() {
	cfg := config.LoadFrom("")
	logger := app.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	defaultHandler = app.NewFunctionHandler(cfg, logger)
}

// Handler is the entry point for Vercel's Go runtime. vercel.json rewrites
// the relay and health paths to this function.
func Handler(w http.ResponseWriter, r *http.Request) {
	defaultHandler.ServeHTTP(w, r)
}
