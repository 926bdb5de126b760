package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/homewatch/dashboard/internal/ctxkeys"
	"github.com/homewatch/dashboard/internal/service"
	"github.com/homewatch/dashboard/internal/validation"
)

type ProfileHandler struct {
	avatarService *service.AvatarService
}

func NewProfileHandler(avatarService *service.AvatarService) *ProfileHandler {
	return &ProfileHandler{avatarService: avatarService}
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())

	if !h.avatarService.Enabled() {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Avatar uploads are disabled"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxAvatarSize+(1<<20))
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Please choose an image"})
		return
	}
	defer func() { _ = file.Close() }()

	contentType, err := validation.ValidateAvatar(header)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	url, err := h.avatarService.UploadAvatar(r.Context(), session.UserID, contentType, file, header)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrStorageDisabled) {
			status = http.StatusNotFound
		}
		slog.Error("avatar upload failed", "error", err, "user_id", session.UserID)
		writeJSON(w, status, map[string]any{"success": false, "error": "Failed to upload image. Please try again."})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "image": url})
}
