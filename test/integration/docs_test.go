//go:build integration

package integration

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAPISpecAndSwaggerUI(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	specResp, err := http.Get(env.Server.URL + "/openapi.yaml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = specResp.Body.Close() })
	require.Equal(t, http.StatusOK, specResp.StatusCode)
	require.Equal(t, "application/yaml", specResp.Header.Get("Content-Type"))

	specBytes, err := io.ReadAll(specResp.Body)
	require.NoError(t, err)
	specText := string(specBytes)
	require.Contains(t, specText, "openapi: 3.0.3")
	require.Contains(t, specText, "/api/v1/{platform}/auth/login")
	require.Contains(t, specText, "/api/v1/{platform}/notices/{id}/publish")
	require.Contains(t, specText, "/api/v1/{platform}/uploads/chunked/init")

	swaggerResp, err := http.Get(env.Server.URL + "/swagger")
	require.NoError(t, err)
	t.Cleanup(func() { _ = swaggerResp.Body.Close() })
	require.Equal(t, http.StatusOK, swaggerResp.StatusCode)
	require.Contains(t, swaggerResp.Header.Get("Content-Type"), "text/html")

	swaggerBytes, err := io.ReadAll(swaggerResp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(swaggerBytes), "SwaggerUIBundle"))
}
