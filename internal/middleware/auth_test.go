package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"go-admin-console/internal/auth"
	"go-admin-console/internal/model"
)

type stubVerifier struct {
	configured map[string]bool
	claims     map[string]*model.AuthClaims
}

func (s *stubVerifier) Configured(platform string) bool {
	return s.configured[platform]
}

func (s *stubVerifier) Verify(tokenString string, platform string, expectedType string) (*model.AuthClaims, error) {
	if claims, ok := s.claims[tokenString]; ok && claims.Platform == platform {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func newTestGate() *AuthMiddleware {
	verifier := &stubVerifier{
		configured: map[string]bool{"admin": true, "web": true},
		claims: map[string]*model.AuthClaims{
			"good-admin": {UserID: "u1", Account: "admin", Platform: "admin", Roles: []string{"admin"}},
			"good-plain": {UserID: "u2", Account: "viewer", Platform: "admin", Roles: []string{"viewer"}},
		},
	}
	whitelist := auth.NewWhitelist(
		[]string{"/api/v1/admin/uploads"},
		[]string{"/api/v1/admin/auth/login"},
	)
	return NewAuthMiddleware(verifier, whitelist)
}

func okHandler(t *testing.T, wantClaims bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ClaimsFromContext(r.Context())
		require.Equal(t, wantClaims, ok)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("valid bearer token attaches claims", func(t *testing.T) {
		gate := newTestGate()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req.Header.Set("Authorization", "Bearer good-admin")
		rec := httptest.NewRecorder()

		gate.Authenticate(okHandler(t, true)).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("cookie preferred over header", func(t *testing.T) {
		gate := newTestGate()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "good-admin"})
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		gate.Authenticate(okHandler(t, true)).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		gate := newTestGate()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		rec := httptest.NewRecorder()

		gate.Authenticate(okHandler(t, false)).ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		gate := newTestGate()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		gate.Authenticate(okHandler(t, false)).ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("whitelisted path passes without token", func(t *testing.T) {
		gate := newTestGate()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/login", nil)
		rec := httptest.NewRecorder()

		gate.Authenticate(okHandler(t, false)).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("garbage token on whitelisted path degrades to anonymous", func(t *testing.T) {
		gate := newTestGate()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads/chunked/init", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		gate.Authenticate(okHandler(t, false)).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unconfigured platform passes unauthenticated", func(t *testing.T) {
		gate := newTestGate()

		// No token at all.
		req := httptest.NewRequest(http.MethodGet, "/api/v1/mini/notices", nil)
		rec := httptest.NewRecorder()
		gate.Authenticate(okHandler(t, false)).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		// A token from another platform does not matter either.
		req = httptest.NewRequest(http.MethodGet, "/api/v1/mini/notices", nil)
		req.Header.Set("Authorization", "Bearer good-admin")
		rec = httptest.NewRecorder()
		gate.Authenticate(okHandler(t, false)).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	gate := newTestGate()

	serve := func(roles []string, withClaims bool, requiredKeys ...string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		if withClaims {
			req = req.WithContext(ContextWithClaims(req.Context(), &model.AuthClaims{
				UserID: "u1", Platform: "admin", Roles: roles,
			}))
		}
		rec := httptest.NewRecorder()
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		gate.RequireRoles(requiredKeys...)(next).ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("empty required set allows anyone", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve(nil, false))
	})

	t.Run("no claims rejected", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, serve(nil, false, "admin"))
	})

	t.Run("claims without roles rejected", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, serve(nil, true, "admin"))
	})

	t.Run("intersecting role allowed", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve([]string{"viewer", "admin"}, true, "admin"))
	})

	t.Run("disjoint roles forbidden", func(t *testing.T) {
		require.Equal(t, http.StatusForbidden, serve([]string{"viewer"}, true, "admin"))
	})

	t.Run("comparison is exact", func(t *testing.T) {
		require.Equal(t, http.StatusForbidden, serve([]string{"Admin"}, true, "admin"))
		require.Equal(t, http.StatusForbidden, serve([]string{"admin2"}, true, "admin"))
	})
}

func TestPlatformFromPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "admin", PlatformFromPath("/api/v1/admin/users"))
	require.Equal(t, "web", PlatformFromPath("/api/v1/web/auth/login"))
	require.Equal(t, "", PlatformFromPath("/health"))
	require.Equal(t, "", PlatformFromPath("/api/v1"))
}
