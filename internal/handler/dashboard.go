package handler

import (
	"log/slog"
	"net/http"

	"github.com/homewatch/dashboard/internal/ctxkeys"
	"github.com/homewatch/dashboard/internal/service"
	"github.com/homewatch/dashboard/internal/ui"
	"github.com/homewatch/dashboard/internal/ui/pages"
)

type DashboardHandler struct {
	familyService    *service.FamilyService
	dashboardService *service.DashboardService
	avatarService    *service.AvatarService
}

func NewDashboardHandler(familyService *service.FamilyService, dashboardService *service.DashboardService, avatarService *service.AvatarService) *DashboardHandler {
	return &DashboardHandler{
		familyService:    familyService,
		dashboardService: dashboardService,
		avatarService:    avatarService,
	}
}

func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	// Resolves (and if needed provisions) the user before anything else reads it
	if h.familyService.UserFamily(r.Context(), session) == nil {
		http.Redirect(w, r, "/app/setup", http.StatusSeeOther)
		return
	}

	view, err := h.dashboardService.View(r.Context(), session)
	if err != nil {
		slog.Error("failed to build dashboard", "error", err, "user_id", session.UserID)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}
	if !view.HasFamily {
		http.Redirect(w, r, "/app/setup", http.StatusSeeOther)
		return
	}

	joinCode := h.familyService.FamilyJoinCode(r.Context(), session)
	roster := h.familyService.FamilyMembers(r.Context(), session)

	ui.Render(w, r, pages.Dashboard(view, joinCode, roster, h.avatarService.Enabled()))
}

func (h *DashboardHandler) SetupPage(w http.ResponseWriter, r *http.Request) {
	if h.familyService.UserHasFamily(r.Context(), ctxkeys.Session(r.Context())) {
		http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
		return
	}
	ui.Render(w, r, pages.Setup(""))
}

// SetupCreate is the form fallback for creating a family.
func (h *DashboardHandler) SetupCreate(w http.ResponseWriter, r *http.Request) {
	_, err := h.familyService.CreateFamily(r.Context(), ctxkeys.Session(r.Context()), r.FormValue("name"))
	if err != nil {
		h.setupFailed(w, r, err, createFailedMessage)
		return
	}
	http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
}

// SetupJoin is the form fallback for joining a family.
func (h *DashboardHandler) SetupJoin(w http.ResponseWriter, r *http.Request) {
	_, err := h.familyService.JoinFamily(r.Context(), ctxkeys.Session(r.Context()), r.FormValue("code"))
	if err != nil {
		h.setupFailed(w, r, err, joinFailedMessage)
		return
	}
	http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
}

func (h *DashboardHandler) setupFailed(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if failureStatus(err) >= http.StatusInternalServerError {
		slog.Error("family setup failed", "error", err, "path", r.URL.Path)
	}
	w.WriteHeader(failureStatus(err))
	ui.Render(w, r, pages.Setup(service.UserMessage(err, fallback)))
}
