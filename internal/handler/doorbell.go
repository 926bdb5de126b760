package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/homewatch/dashboard/internal/ctxkeys"
	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/service"
	"github.com/homewatch/dashboard/internal/ui"
	"github.com/homewatch/dashboard/internal/ui/pages"
)

type DoorbellHandler struct {
	doorbellService *service.DoorbellService
}

func NewDoorbellHandler(doorbellService *service.DoorbellService) *DoorbellHandler {
	return &DoorbellHandler{doorbellService: doorbellService}
}

func (h *DoorbellHandler) DoorbellsPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "")
}

func (h *DoorbellHandler) Register(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	_, err := h.doorbellService.Register(r.Context(), session, r.FormValue("name"), r.FormValue("location"), r.FormValue("model"))
	if err != nil {
		var inputErr *service.InputError
		switch {
		case errors.As(err, &inputErr):
			w.WriteHeader(http.StatusBadRequest)
			h.render(w, r, inputErr.Message)
		case errors.Is(err, service.ErrNoFamily):
			http.Redirect(w, r, "/app/setup", http.StatusSeeOther)
		default:
			slog.Error("failed to register doorbell", "error", err, "user_id", session.UserID)
			w.WriteHeader(http.StatusInternalServerError)
			h.render(w, r, "Failed to add doorbell. Please try again.")
		}
		return
	}

	http.Redirect(w, r, "/app/doorbells", http.StatusSeeOther)
}

func (h *DoorbellHandler) render(w http.ResponseWriter, r *http.Request, errMsg string) {
	session := ctxkeys.Session(r.Context())

	list, err := h.doorbellService.List(r.Context(), session)
	if errors.Is(err, service.ErrNoFamily) {
		http.Redirect(w, r, "/app/setup", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("failed to list doorbells", "error", err, "user_id", session.UserID)
		list = []*model.Doorbell{}
	}

	ui.Render(w, r, pages.Doorbells(list, errMsg))
}
