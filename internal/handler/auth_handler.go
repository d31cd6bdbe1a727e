package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-admin-console/internal/middleware"
	"go-admin-console/internal/model"
	"go-admin-console/internal/service"
	"go-admin-console/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Captcha issues a verification code bound to a random one-time key. The
// code is returned in the body; swapping in an image renderer only changes
// this handler.
func (h *AuthHandler) Captcha(w http.ResponseWriter, r *http.Request) {
	codeKey := uuid.NewString()

	code, err := h.service.NewCaptcha(codeKey)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{
		"code_key": codeKey,
		"code":     code,
	}, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	platform := middleware.PlatformFromPath(r.URL.Path)

	tokens, err := h.service.Login(r.Context(), platform, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, "token", tokens.AccessToken, h.service.Tokens().AccessTTL(platform))
	setTokenCookie(w, "refresh_token", tokens.RefreshToken, h.service.Tokens().RefreshTTL(platform))

	writeSuccess(w, http.StatusOK, tokens, nil)
}

// Refresh exchanges a refresh token for a new access token. The token is
// read from the refresh_token cookie or the X-Refresh-Token header.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := ""
	if c, err := r.Cookie("refresh_token"); err == nil {
		refreshToken = c.Value
	}
	if refreshToken == "" {
		refreshToken = strings.TrimSpace(r.Header.Get("X-Refresh-Token"))
	}

	if refreshToken == "" {
		writeError(w, apierror.New("UNAUTHORIZED", "refresh token is required", "", http.StatusUnauthorized))
		return
	}

	platform := middleware.PlatformFromPath(r.URL.Path)

	accessToken, err := h.service.Refresh(refreshToken, platform)
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, "token", accessToken, h.service.Tokens().AccessTTL(platform))

	writeSuccess(w, http.StatusOK, map[string]any{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int64(h.service.Tokens().AccessTTL(platform).Seconds()),
	}, nil)
}

// Logout clears the session cookies. Tokens are stateless, so an access
// token captured before logout stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearTokenCookie(w, "token")
	clearTokenCookie(w, "refresh_token")

	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func setTokenCookie(w http.ResponseWriter, name string, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearTokenCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
