package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-admin-console/internal/config"
	"go-admin-console/internal/model"
)

func testTokenService() *TokenService {
	return NewTokenService(map[string]config.PlatformJWT{
		"admin": {Secret: "admin-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour},
		"web":   {Secret: "web-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour},
	})
}

func testUser() model.AuthUser {
	return model.AuthUser{
		ID:       "user-1",
		Account:  "admin",
		Nickname: "Administrator",
		Platform: "admin",
		Roles:    []string{"admin"},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := testTokenService()

	pair, err := svc.Issue(testUser(), "admin")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "Bearer", pair.TokenType)
	require.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := svc.Verify(pair.AccessToken, "admin", TokenTypeAccess)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "admin", claims.Account)
	require.Equal(t, "admin", claims.Platform)
	require.Equal(t, []string{"admin"}, claims.Roles)
	require.NotEmpty(t, claims.TokenID)
}

func TestTokenCrossPlatformRejected(t *testing.T) {
	t.Parallel()

	svc := testTokenService()

	pair, err := svc.Issue(testUser(), "admin")
	require.NoError(t, err)

	// An admin token verified against the web secret must fail.
	_, err = svc.Verify(pair.AccessToken, "web", TokenTypeAccess)
	require.Error(t, err)
}

func TestTokenTypeEnforced(t *testing.T) {
	t.Parallel()

	svc := testTokenService()

	pair, err := svc.Issue(testUser(), "admin")
	require.NoError(t, err)

	_, err = svc.Verify(pair.RefreshToken, "admin", TokenTypeAccess)
	require.Error(t, err)

	_, err = svc.Verify(pair.AccessToken, "admin", TokenTypeRefresh)
	require.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(map[string]config.PlatformJWT{
		"admin": {Secret: "admin-secret", AccessTTL: -time.Minute, RefreshTTL: time.Hour},
	})

	pair, err := svc.Issue(testUser(), "admin")
	require.NoError(t, err)

	_, err = svc.Verify(pair.AccessToken, "admin", TokenTypeAccess)
	require.Error(t, err)
}

func TestRefreshIssuesAccessToken(t *testing.T) {
	t.Parallel()

	svc := testTokenService()

	pair, err := svc.Issue(testUser(), "admin")
	require.NoError(t, err)

	accessToken, err := svc.Refresh(pair.RefreshToken, "admin")
	require.NoError(t, err)

	claims, err := svc.Verify(accessToken, "admin", TokenTypeAccess)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, []string{"admin"}, claims.Roles)

	// An access token is not accepted as a refresh token.
	_, err = svc.Refresh(pair.AccessToken, "admin")
	require.Error(t, err)
}

func TestUnconfiguredPlatform(t *testing.T) {
	t.Parallel()

	svc := testTokenService()

	require.False(t, svc.Configured("mini"))

	_, err := svc.Issue(testUser(), "mini")
	require.ErrorIs(t, err, model.ErrPlatformNotConfigured)

	_, err = svc.Verify("anything", "mini", TokenTypeAccess)
	require.ErrorIs(t, err, model.ErrPlatformNotConfigured)
}

func TestTamperedTokenRejected(t *testing.T) {
	t.Parallel()

	svc := testTokenService()

	pair, err := svc.Issue(testUser(), "admin")
	require.NoError(t, err)

	tampered := pair.AccessToken[:len(pair.AccessToken)-2] + "xx"
	_, err = svc.Verify(tampered, "admin", TokenTypeAccess)
	require.Error(t, err)
}
