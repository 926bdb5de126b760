package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/homewatch/dashboard/internal/ui"
	"github.com/homewatch/dashboard/internal/ui/pages"
	"github.com/jmoiron/sqlx"
)

type HomeHandler struct {
	db *sqlx.DB
}

func NewHomeHandler(db *sqlx.DB) *HomeHandler {
	return &HomeHandler{db: db}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Home())
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	ui.Render(w, r, pages.NotFound())
}

// Healthz reports whether the database answers.
func (h *HomeHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.db.PingContext(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
