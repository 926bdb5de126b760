package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"
)

func TestButtonClass(t *testing.T) {
	merged := ButtonClass(VariantDefault, "w-full", "px-8")
	require.Contains(t, merged, "bg-primary")
	require.Contains(t, merged, "w-full")
	require.Contains(t, merged, "px-8")
	require.NotContains(t, merged, "px-4")
}

func TestCardRendersChildren(t *testing.T) {
	var out bytes.Buffer
	ctx := context.Background()
	err := Card().Render(templ.WithChildren(ctx, Alert("Oops <b>")), &out)
	require.NoError(t, err)

	html := out.String()
	require.Contains(t, html, `role="alert"`)
	require.Contains(t, html, "Oops &lt;b&gt;")
}

func TestInputDefaultsToText(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Input(InputProps{Name: "code", Label: "Join code", Class: "px-5"}).Render(context.Background(), &out))

	html := out.String()
	require.Contains(t, html, `type="text" name="code"`)
	require.Contains(t, html, "px-5")
	require.NotContains(t, html, "px-3")
}
