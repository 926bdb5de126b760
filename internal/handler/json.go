package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode json response", "error", err)
	}
}

// formField reads field from a JSON object body or, for any other
// content type, from the submitted form.
func formField(r *http.Request, field string) string {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return r.FormValue(field)
	}

	var body map[string]any
	err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(&body)
	if err != nil {
		return ""
	}
	value, _ := body[field].(string)
	return value
}
