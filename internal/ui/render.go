package ui

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

// Render writes c to w. A component that fails part way is logged and
// answered with a 500.
func Render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	err := c.Render(r.Context(), w)
	if err != nil {
		slog.Error("render failed", "error", err, "path", r.URL.Path)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
