//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"go-admin-console/internal/model"
)

func TestLoginFlowAndProtectedEndpoints(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAdmin(t, "Password123!")

	pair := env.loginAdmin(t, account, "Password123!")

	// /auth/me returns the identity embedded in the token.
	me := getJSON(t, nil, env.Server.URL+"/api/v1/admin/auth/me", pair.AccessToken)
	require.Equal(t, "OK", me.Code)

	var authUser model.AuthUser
	require.NoError(t, json.Unmarshal(me.Data, &authUser))
	require.Equal(t, account, authUser.Account)
	require.Contains(t, authUser.Roles, "admin")

	// Protected endpoint without a token is rejected.
	require.Equal(t, http.StatusUnauthorized,
		statusOf(t, http.MethodGet, env.Server.URL+"/api/v1/admin/users", nil, ""))

	// With the admin token it passes.
	require.Equal(t, http.StatusOK,
		statusOf(t, http.MethodGet, env.Server.URL+"/api/v1/admin/users", nil, pair.AccessToken))
}

func TestLoginRejectsBadCaptchaAndPassword(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAdmin(t, "Password123!")

	// Wrong captcha.
	resp := postJSON(t, env.Server.URL+"/api/v1/admin/auth/login", model.LoginRequest{
		Account:  account,
		Password: "Password123!",
		Code:     "XXXX",
		CodeKey:  "bogus",
	}, "")
	require.NotEqual(t, "OK", resp.Code)

	// Right captcha, wrong password.
	captcha := getJSON(t, nil, env.Server.URL+"/api/v1/admin/auth/captcha", "")
	var captchaData struct {
		CodeKey string `json:"code_key"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(captcha.Data, &captchaData))

	status := statusOf(t, http.MethodPost, env.Server.URL+"/api/v1/admin/auth/login", model.LoginRequest{
		Account:  account,
		Password: "wrong",
		Code:     captchaData.Code,
		CodeKey:  captchaData.CodeKey,
	}, "")
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestRefreshViaHeader(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAdmin(t, "Password123!")
	pair := env.loginAdmin(t, account, "Password123!")

	req, err := http.NewRequest(http.MethodPost, env.Server.URL+"/api/v1/admin/auth/refresh", nil)
	require.NoError(t, err)
	req.Header.Set("X-Refresh-Token", pair.RefreshToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Without any token material refresh is rejected.
	require.Equal(t, http.StatusUnauthorized,
		statusOf(t, http.MethodPost, env.Server.URL+"/api/v1/admin/auth/refresh", nil, ""))
}

func TestRoleGateForbidsNonAdmin(t *testing.T) {
	env := newTestEnv(t)
	adminAccount := env.createAdmin(t, "Password123!")
	adminPair := env.loginAdmin(t, adminAccount, "Password123!")

	// Create a user with no roles through the admin API.
	created := postJSON(t, env.Server.URL+"/api/v1/admin/users", model.CreateUserRequest{
		Account:  "viewer-" + adminAccount,
		Nickname: "Viewer",
		Password: "Password123!",
	}, adminPair.AccessToken)
	require.Equal(t, "OK", created.Code)

	viewerPair := env.loginAdmin(t, "viewer-"+adminAccount, "Password123!")

	// The viewer can read their own identity but not the user list.
	require.Equal(t, http.StatusOK,
		statusOf(t, http.MethodGet, env.Server.URL+"/api/v1/admin/auth/me", nil, viewerPair.AccessToken))
	require.Equal(t, http.StatusUnauthorized,
		statusOf(t, http.MethodGet, env.Server.URL+"/api/v1/admin/users", nil, viewerPair.AccessToken))
}

func TestUnconfiguredPlatformPassesThrough(t *testing.T) {
	env := newTestEnv(t)

	// The web platform has no JWT config in this environment; the notice
	// list is reachable without any token.
	require.Equal(t, http.StatusOK,
		statusOf(t, http.MethodGet, env.Server.URL+"/api/v1/web/notices", nil, ""))

	// Role-gated endpoints still refuse anonymous callers.
	require.Equal(t, http.StatusUnauthorized,
		statusOf(t, http.MethodGet, env.Server.URL+"/api/v1/web/users", nil, ""))
}
