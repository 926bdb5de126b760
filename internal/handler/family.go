package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/homewatch/dashboard/internal/ctxkeys"
	"github.com/homewatch/dashboard/internal/service"
)

const (
	createFailedMessage = "Failed to create family. Please try again."
	joinFailedMessage   = "Failed to join family. Please try again."
)

// FamilyHandler exposes the family operations as JSON endpoints. Mutations
// answer {success, family} or {success: false, error}.
type FamilyHandler struct {
	familyService *service.FamilyService
}

func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	family, err := h.familyService.CreateFamily(r.Context(), session, formField(r, "name"))
	if err != nil {
		h.fail(w, r, err, createFailedMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "family": family})
}

func (h *FamilyHandler) Join(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	family, err := h.familyService.JoinFamily(r.Context(), session, formField(r, "code"))
	if err != nil {
		h.fail(w, r, err, joinFailedMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "family": family})
}

func (h *FamilyHandler) Status(w http.ResponseWriter, r *http.Request) {
	hasFamily := h.familyService.UserHasFamily(r.Context(), ctxkeys.Session(r.Context()))
	writeJSON(w, http.StatusOK, map[string]any{"hasFamily": hasFamily})
}

func (h *FamilyHandler) Family(w http.ResponseWriter, r *http.Request) {
	family := h.familyService.UserFamily(r.Context(), ctxkeys.Session(r.Context()))
	writeJSON(w, http.StatusOK, map[string]any{"family": family})
}

func (h *FamilyHandler) JoinCode(w http.ResponseWriter, r *http.Request) {
	code := h.familyService.FamilyJoinCode(r.Context(), ctxkeys.Session(r.Context()))

	var joinCode *string
	if code != "" {
		joinCode = &code
	}
	writeJSON(w, http.StatusOK, map[string]any{"joinCode": joinCode})
}

func (h *FamilyHandler) Members(w http.ResponseWriter, r *http.Request) {
	roster := h.familyService.FamilyMembers(r.Context(), ctxkeys.Session(r.Context()))
	writeJSON(w, http.StatusOK, roster)
}

func (h *FamilyHandler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := failureStatus(err)
	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		slog.Error("family operation failed", "error", err, "path", r.URL.Path)
	}
	writeJSON(w, status, map[string]any{"success": false, "error": service.UserMessage(err, fallback)})
}

func failureStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAlreadyInFamily):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidJoinCode):
		return http.StatusNotFound
	case errors.Is(err, service.ErrJoinCodeExhausted), errors.Is(err, service.ErrJoinCodeTaken):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
