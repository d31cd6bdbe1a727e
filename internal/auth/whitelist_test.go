package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWhitelistMatches(t *testing.T) {
	t.Parallel()

	wl := NewWhitelist(
		[]string{"/swagger", "/api/v1/admin/uploads"},
		[]string{"/favicon.ico", "/api/v1/admin/auth/login"},
	)

	t.Run("prefix match", func(t *testing.T) {
		require.True(t, wl.Matches("/swagger"))
		require.True(t, wl.Matches("/swagger/index.html"))
		require.True(t, wl.Matches("/api/v1/admin/uploads/chunked/init"))
	})

	t.Run("exact match", func(t *testing.T) {
		require.True(t, wl.Matches("/favicon.ico"))
		require.True(t, wl.Matches("/api/v1/admin/auth/login"))
	})

	t.Run("no normalization", func(t *testing.T) {
		// Comparison is literal: trailing slashes and case both matter.
		require.False(t, wl.Matches("/api/v1/admin/auth/login/"))
		require.False(t, wl.Matches("/API/v1/admin/auth/login"))
		require.False(t, wl.Matches("/api/v1/web/auth/login"))
	})

	t.Run("nil whitelist matches nothing", func(t *testing.T) {
		var nilWL *Whitelist
		require.False(t, nilWL.Matches("/swagger"))
	})

	t.Run("empty prefix is ignored", func(t *testing.T) {
		empty := NewWhitelist([]string{""}, nil)
		require.False(t, empty.Matches("/anything"))
	})
}
