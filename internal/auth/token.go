package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-admin-console/internal/config"
	"go-admin-console/internal/model"
	"go-admin-console/pkg/apierror"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenService signs and verifies stateless session tokens. Each platform
// has its own secret and TTL pair; there is no persisted token state and no
// revocation list, so a token stays valid until its encoded expiry elapses.
type TokenService struct {
	platforms map[string]config.PlatformJWT
}

func NewTokenService(platforms map[string]config.PlatformJWT) *TokenService {
	return &TokenService{platforms: platforms}
}

// Configured reports whether the platform has a secret/TTL pair. Callers
// must treat an unconfigured platform as "skip validation"; the auth gate's
// permissive fallback depends on this.
func (s *TokenService) Configured(platform string) bool {
	_, ok := s.platforms[platform]
	return ok
}

// Issue signs an access/refresh pair for the platform, embedding the full
// identity snapshot in the claims.
func (s *TokenService) Issue(user model.AuthUser, platform string) (model.TokenPair, error) {
	pc, ok := s.platforms[platform]
	if !ok {
		return model.TokenPair{}, fmt.Errorf("issue tokens: %w: %s", model.ErrPlatformNotConfigured, platform)
	}

	now := time.Now().UTC()

	accessToken, err := signToken(pc.Secret, claimsFor(user, platform, TokenTypeAccess, now, pc.AccessTTL))
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := signToken(pc.Secret, claimsFor(user, platform, TokenTypeRefresh, now, pc.RefreshTTL))
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(pc.AccessTTL.Seconds()),
		User:         user,
	}, nil
}

// Verify checks signature and expiry against the platform's secret. A token
// issued under another platform's secret fails here.
func (s *TokenService) Verify(tokenString string, platform string, expectedType string) (*model.AuthClaims, error) {
	pc, ok := s.platforms[platform]
	if !ok {
		return nil, fmt.Errorf("verify token: %w: %s", model.ErrPlatformNotConfigured, platform)
	}

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.New("INVALID_TOKEN", "invalid token signing method", "", http.StatusUnauthorized)
		}
		return []byte(pc.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.New("INVALID_TOKEN", "invalid or expired token", "", http.StatusUnauthorized)
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.New("INVALID_TOKEN", "invalid token claims", "", http.StatusUnauthorized)
	}

	claims := &model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Account, _ = claimsMap["account"].(string)
	claims.Nickname, _ = claimsMap["nickname"].(string)
	claims.Platform, _ = claimsMap["platform"].(string)
	claims.Type, _ = claimsMap["typ"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)
	claims.Roles = stringSlice(claimsMap["roles"])

	if expectedType != "" && claims.Type != expectedType {
		return nil, apierror.New("INVALID_TOKEN", "invalid token type", claims.Type, http.StatusUnauthorized)
	}

	if claims.UserID == "" {
		return nil, apierror.New("INVALID_TOKEN", "invalid token subject", "", http.StatusUnauthorized)
	}

	if claims.Platform != platform {
		return nil, apierror.New("INVALID_TOKEN", "token platform mismatch", claims.Platform, http.StatusUnauthorized)
	}

	return claims, nil
}

// Refresh verifies a refresh token and signs a new access token carrying
// the same identity snapshot.
func (s *TokenService) Refresh(refreshToken string, platform string) (string, error) {
	claims, err := s.Verify(refreshToken, platform, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	pc := s.platforms[platform]
	user := model.AuthUser{
		ID:       claims.UserID,
		Account:  claims.Account,
		Nickname: claims.Nickname,
		Platform: claims.Platform,
		Roles:    claims.Roles,
	}

	accessToken, err := signToken(pc.Secret, claimsFor(user, platform, TokenTypeAccess, time.Now().UTC(), pc.AccessTTL))
	if err != nil {
		return "", fmt.Errorf("sign refreshed access token: %w", err)
	}

	return accessToken, nil
}

// AccessTTL exposes the platform's access token lifetime for cookie expiry.
func (s *TokenService) AccessTTL(platform string) time.Duration {
	return s.platforms[platform].AccessTTL
}

// RefreshTTL exposes the platform's refresh token lifetime for cookie expiry.
func (s *TokenService) RefreshTTL(platform string) time.Duration {
	return s.platforms[platform].RefreshTTL
}

func claimsFor(user model.AuthUser, platform string, tokenType string, now time.Time, ttl time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      user.ID,
		"account":  user.Account,
		"nickname": user.Nickname,
		"roles":    user.Roles,
		"platform": platform,
		"typ":      tokenType,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
}

func signToken(secret string, claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func stringSlice(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
