package ui

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Run("writes component", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/app/setup", nil)

		Render(rec, req, templ.Raw("<p>hello</p>"))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "<p>hello</p>", rec.Body.String())
	})

	t.Run("failed component", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/app/setup", nil)
		broken := templ.ComponentFunc(func(context.Context, io.Writer) error {
			return errors.New("boom")
		})

		Render(rec, req, broken)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "internal server error")
	})
}
