package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/gemrelay/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/gemrelay/internal/version"
)

// RootStatus returns JSON status and version information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"name":    "gemrelay",
		"version": version.Version,
		"status":  "running",
		"api":     "/api/gemini",
	}, http.StatusOK)
}

// HealthCheck reports liveness and whether an API key is present.
// It never reveals the key itself.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	configured := h.Secret != nil && h.Secret.Secret() != ""
	shared.WriteJSON(w, map[string]any{
		"status":             "active",
		"app":                "gemrelay",
		"api_key_configured": configured,
		"uptime_seconds":     int64(time.Since(h.StartTime).Seconds()),
	}, http.StatusOK)
}
