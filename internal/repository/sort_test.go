package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderClause(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ORDER BY sort ASC, created_at ASC", orderClause("ASC"))
	require.Equal(t, "ORDER BY sort ASC, created_at ASC", orderClause("asc"))
	require.Equal(t, "ORDER BY sort ASC, created_at ASC", orderClause(" Asc "))
	require.Equal(t, "ORDER BY sort DESC, created_at DESC", orderClause("DESC"))
	require.Equal(t, "ORDER BY sort DESC, created_at DESC", orderClause(""))
	require.Equal(t, "ORDER BY sort DESC, created_at DESC", orderClause("sideways"))
	require.Equal(t, "ORDER BY sort DESC, created_at DESC", orderClause("sort; DROP TABLE users"))
}
