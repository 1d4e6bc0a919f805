package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// HandleRoot handles GET /.
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "It works!")
}

// HandleHealth handles GET /health.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		slog.Warn("health check failed", "error", err)
		render.Status(r, http.StatusServiceUnavailable)
		render.PlainText(w, r, "database unavailable")
		return
	}

	render.PlainText(w, r, "ok")
}
