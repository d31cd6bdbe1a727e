package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	t.Run("plain names pass through", func(t *testing.T) {
		got, err := SanitizeFilename("report 2025.pdf")
		require.NoError(t, err)
		require.Equal(t, "report 2025.pdf", got)
	})

	t.Run("path characters are replaced", func(t *testing.T) {
		got, err := SanitizeFilename(`a/b\c:d*e.txt`)
		require.NoError(t, err)
		require.Equal(t, "a_b_c_d_e.txt", got)
	})

	t.Run("control and invisible characters are stripped", func(t *testing.T) {
		got, err := SanitizeFilename("re​port\t.txt")
		require.NoError(t, err)
		require.Equal(t, "report.txt", got)
	})

	t.Run("long names truncate on rune boundaries", func(t *testing.T) {
		got, err := SanitizeFilename(strings.Repeat("ä", 300))
		require.NoError(t, err)
		require.Equal(t, 255, len([]rune(got)))
	})

	t.Run("rejections", func(t *testing.T) {
		for _, name := range []string{"", "   ", ".hidden", ".", "..", "a\x00b"} {
			_, err := SanitizeFilename(name)
			require.Error(t, err, "name %q", name)
		}
	})
}
