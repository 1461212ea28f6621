package router

import (
	"context"
	"net/http"
	"time"

	"taskbook/pkg/apperror"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	checks map[string]pinger
}

func (h *healthHandler) Live(w http.ResponseWriter, r *http.Request) {
	apperror.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Ready pings every backend and reports 503 when any of them is down.
func (h *healthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	statusCode := http.StatusOK
	checks := make(map[string]any, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks[name] = map[string]any{"status": "error", "error": err.Error()}
			continue
		}
		checks[name] = map[string]any{"status": "ok"}
	}

	apperror.WriteJSON(w, statusCode, map[string]any{
		"ok":     status == "ready",
		"status": status,
		"checks": checks,
	})
}
