package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-admin-console/internal/auth"
	"go-admin-console/internal/config"
	"go-admin-console/internal/model"
)

type stubUserFinder struct {
	users map[string]model.User
}

func (s *stubUserFinder) FindByAccount(_ context.Context, platform string, account string) (model.User, error) {
	for _, u := range s.users {
		if u.Platform == platform && u.Account == account {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *stubUserFinder) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *stubUserFinder) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	finder := &stubUserFinder{users: map[string]model.User{
		"u1": {
			ID:           "u1",
			Account:      "admin",
			PasswordHash: string(hash),
			Platform:     "admin",
			Roles:        []model.Role{{ID: "r1", RoleKey: "admin"}},
		},
	}}

	tokens := auth.NewTokenService(map[string]config.PlatformJWT{
		"admin": {Secret: "test-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour},
	})

	return NewAuthService(finder, tokens, time.Minute), finder
}

func login(svc *AuthService, account, password string) (model.TokenPair, error) {
	codeKey := "k1"
	code, err := svc.NewCaptcha(codeKey)
	if err != nil {
		return model.TokenPair{}, err
	}

	return svc.Login(context.Background(), "admin", model.LoginRequest{
		Account:  account,
		Password: password,
		Code:     code,
		CodeKey:  codeKey,
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	pair, err := login(svc, "admin", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.Equal(t, []string{"admin"}, pair.User.Roles)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	_, err := login(svc, "admin", "wrong")
	require.Error(t, err)
}

func TestLoginUnknownAccount(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	_, err := login(svc, "nobody", "secret123")
	require.Error(t, err)
}

func TestCaptchaSingleUse(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	code, err := svc.NewCaptcha("key")
	require.NoError(t, err)
	require.Len(t, code, 4)

	require.NoError(t, svc.checkCaptcha("key", code))

	// Consumed after one check, even a correct replay fails.
	require.Error(t, svc.checkCaptcha("key", code))
}

func TestCaptchaCaseInsensitive(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	code, err := svc.NewCaptcha("key")
	require.NoError(t, err)

	require.NoError(t, svc.checkCaptcha("key", " "+strings.ToLower(code)+" "))
}

func TestCaptchaMismatch(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	_, err := svc.NewCaptcha("key")
	require.NoError(t, err)
	require.Error(t, svc.checkCaptcha("key", "0000"))
	require.Error(t, svc.checkCaptcha("unknown-key", "0000"))
}

func TestRefreshFlow(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(t)

	pair, err := login(svc, "admin", "secret123")
	require.NoError(t, err)

	accessToken, err := svc.Refresh(pair.RefreshToken, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)

	_, err = svc.Refresh(pair.AccessToken, "admin")
	require.Error(t, err)
}
