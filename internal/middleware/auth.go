package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go-admin-console/internal/auth"
	"go-admin-console/internal/model"
)

type tokenVerifier interface {
	Configured(platform string) bool
	Verify(tokenString string, platform string, expectedType string) (*model.AuthClaims, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

// AuthMiddleware is the single authentication gate. Guard-style and
// middleware-style call sites share this one implementation.
type AuthMiddleware struct {
	tokens    tokenVerifier
	whitelist *auth.Whitelist
}

func NewAuthMiddleware(tokens tokenVerifier, whitelist *auth.Whitelist) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, whitelist: whitelist}
}

// Authenticate resolves the platform from the URL, extracts a token from the
// cookie or the Authorization header and attaches verified claims to the
// request context. Whitelisted paths always pass, even with a missing or
// invalid token. Requests for a platform with no JWT configuration pass
// through unauthenticated; that permissive fallback is intentional and
// matches the documented behavior, it is not a security boundary.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		platform := PlatformFromPath(r.URL.Path)
		token := extractToken(r)
		whitelisted := m.whitelist.Matches(r.URL.Path)

		if !m.tokens.Configured(platform) {
			next.ServeHTTP(w, r)
			return
		}

		if token == "" {
			if whitelisted {
				next.ServeHTTP(w, r)
				return
			}
			writeAuthError(w, "UNAUTHORIZED", "missing authentication token", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.Verify(token, platform, auth.TokenTypeAccess)
		if err != nil {
			// Whitelist exemption takes precedence over token rejection:
			// a garbage token on a whitelisted path degrades to anonymous.
			if whitelisted {
				next.ServeHTTP(w, r)
				return
			}
			writeAuthError(w, "INVALID_TOKEN", "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles allows the request when the caller's role keys intersect the
// required set. An empty required set always allows. Comparison is exact
// string equality on role keys.
func (m *AuthMiddleware) RequireRoles(requiredKeys ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(requiredKeys) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := ClaimsFromContext(r.Context())
			if !ok || len(claims.Roles) == 0 {
				writeAuthError(w, "UNAUTHORIZED", "authentication required", http.StatusUnauthorized)
				return
			}

			callerKeys := make(map[string]struct{}, len(claims.Roles))
			for _, key := range claims.Roles {
				callerKeys[key] = struct{}{}
			}

			for _, required := range requiredKeys {
				if _, exists := callerKeys[required]; exists {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeAuthError(w, "FORBIDDEN", "insufficient permissions", http.StatusForbidden)
		})
	}
}

// PlatformFromPath reads the platform tag from the fixed path segment
// position, e.g. /api/v1/{platform}/....
func PlatformFromPath(path string) string {
	segments := strings.Split(path, "/")
	if len(segments) > 3 {
		return segments[3]
	}
	return ""
}

// extractToken prefers the token cookie and falls back to a bearer header.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie("token"); err == nil {
		if v := strings.TrimSpace(cookie.Value); v != "" {
			return v
		}
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}

	return strings.TrimSpace(header[7:])
}

func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok
}

// ContextWithClaims is used by tests and the websocket upgrader to seed an
// identity without running the full gate.
func ContextWithClaims(ctx context.Context, claims *model.AuthClaims) context.Context {
	return context.WithValue(ctx, authClaimsContextKey, claims)
}

func writeAuthError(w http.ResponseWriter, code string, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}
