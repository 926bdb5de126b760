package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homewatch/dashboard/internal/ctxkeys"
	"github.com/homewatch/dashboard/internal/dbtest"
	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/repository"
	"github.com/homewatch/dashboard/internal/service"
)

func newFamilyHandler(t *testing.T) *FamilyHandler {
	t.Helper()

	store := repository.NewStore(dbtest.New(t))
	emails := service.NewEmailService("", "noreply@example.com", "http://localhost:8080", "Homewatch", true)
	dashboard := service.NewDashboardService(store, 16, 0, 5)
	families := service.NewFamilyService(store, service.NewIdentityResolver(), emails, dashboard, 10)
	return NewFamilyHandler(families)
}

func call(t *testing.T, h http.HandlerFunc, method, target, body string, session *model.Session) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req = req.WithContext(ctxkeys.WithSession(req.Context(), session))
	}

	rec := httptest.NewRecorder()
	h(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestFamilyHandler(t *testing.T) {
	h := newFamilyHandler(t)
	alice := &model.Session{UserID: "alice", Email: "alice@example.com", Name: "Alice"}
	bob := &model.Session{UserID: "bob", Email: "bob@example.com", Name: "Bob"}

	code, body := call(t, h.Status, http.MethodGet, "/app/family/status", "", alice)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, body["hasFamily"])

	code, body = call(t, h.Create, http.MethodPost, "/app/family", `{"name":""}`, alice)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, map[string]any{"success": false, "error": "Family name is required"}, body)

	code, body = call(t, h.Create, http.MethodPost, "/app/family", `{"name":"Smiths"}`, alice)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"])
	family := body["family"].(map[string]any)
	require.Equal(t, "Smiths", family["name"])
	joinCode := family["joinCode"].(string)
	require.Len(t, joinCode, 6)

	code, body = call(t, h.Create, http.MethodPost, "/app/family", `{"name":"Again"}`, alice)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "User is already in a family.", body["error"])

	code, body = call(t, h.Join, http.MethodPost, "/app/family/join", `{"code":"NOPE00"}`, bob)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Invalid join code. Family not found.", body["error"])

	code, body = call(t, h.Join, http.MethodPost, "/app/family/join", `{"code":"`+strings.ToLower(joinCode)+`"}`, bob)
	require.Equal(t, http.StatusOK, code)
	joined := body["family"].(map[string]any)
	require.Equal(t, family["id"], joined["id"])
	require.NotContains(t, joined, "joinCode")

	code, body = call(t, h.Family, http.MethodGet, "/app/family", "", bob)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Smiths", body["family"].(map[string]any)["name"])

	code, body = call(t, h.JoinCode, http.MethodGet, "/app/family/join-code", "", bob)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, joinCode, body["joinCode"])

	_, body = call(t, h.Members, http.MethodGet, "/app/family/members", "", bob)
	require.Equal(t, "alice", body["creatorId"])
	members := body["members"].([]any)
	require.Len(t, members, 2)
	require.Equal(t, "alice", members[0].(map[string]any)["id"])
	require.Equal(t, "bob", members[1].(map[string]any)["id"])

	carol := &model.Session{UserID: "carol", Email: "carol@example.com"}
	_, body = call(t, h.JoinCode, http.MethodGet, "/app/family/join-code", "", carol)
	require.Nil(t, body["joinCode"])
	_, body = call(t, h.Family, http.MethodGet, "/app/family", "", carol)
	require.Nil(t, body["family"])
}

func TestFamilyHandlerFormInput(t *testing.T) {
	h := newFamilyHandler(t)
	alice := &model.Session{UserID: "alice", Email: "alice@example.com"}

	form := url.Values{"name": {"Smiths"}}
	req := httptest.NewRequest(http.MethodPost, "/app/family", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(ctxkeys.WithSession(req.Context(), alice))

	rec := httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestFailureStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{&service.InputError{Message: "bad"}, http.StatusBadRequest},
		{service.ErrAlreadyInFamily, http.StatusConflict},
		{service.ErrInvalidJoinCode, http.StatusNotFound},
		{service.ErrJoinCodeExhausted, http.StatusServiceUnavailable},
		{service.ErrJoinCodeTaken, http.StatusServiceUnavailable},
		{service.ErrUserNotFound, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, failureStatus(tt.err), tt.err.Error())
	}
}
