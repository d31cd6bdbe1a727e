package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	t.Run("substitutes params", func(t *testing.T) {
		got, err := renderTemplate("t", "Hello {{.Account}}, your code is {{.Code}}", map[string]any{
			"Account": "alice",
			"Code":    "1234",
		})
		require.NoError(t, err)
		require.Equal(t, "Hello alice, your code is 1234", got)
	})

	t.Run("no placeholders needs no params", func(t *testing.T) {
		got, err := renderTemplate("t", "static subject", nil)
		require.NoError(t, err)
		require.Equal(t, "static subject", got)
	})

	t.Run("missing key fails", func(t *testing.T) {
		_, err := renderTemplate("t", "Hello {{.Account}}", map[string]any{})
		require.Error(t, err)
	})

	t.Run("parse error fails", func(t *testing.T) {
		_, err := renderTemplate("t", "Hello {{.Account", nil)
		require.Error(t, err)
	})
}
