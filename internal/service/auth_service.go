package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"go-admin-console/internal/auth"
	"go-admin-console/internal/model"
	"go-admin-console/pkg/apierror"
)

type userFinder interface {
	FindByAccount(ctx context.Context, platform string, account string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
}

// AuthService handles credential verification and the login/refresh/logout
// flows. Captcha codes live in a TTL cache and are single use; session
// tokens are stateless so logout only clears cookies client-side.
type AuthService struct {
	users    userFinder
	tokens   *auth.TokenService
	captchas *gocache.Cache
}

func NewAuthService(users userFinder, tokens *auth.TokenService, captchaTTL time.Duration) *AuthService {
	if captchaTTL <= 0 {
		captchaTTL = 5 * time.Minute
	}

	return &AuthService{
		users:    users,
		tokens:   tokens,
		captchas: gocache.New(captchaTTL, 2*captchaTTL),
	}
}

const captchaAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewCaptcha issues a short verification code bound to a one-time key.
func (s *AuthService) NewCaptcha(codeKey string) (string, error) {
	code := make([]byte, 4)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(captchaAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = captchaAlphabet[n.Int64()]
	}

	s.captchas.SetDefault(codeKey, string(code))
	return string(code), nil
}

func (s *AuthService) checkCaptcha(codeKey string, code string) error {
	stored, found := s.captchas.Get(codeKey)
	if found {
		s.captchas.Delete(codeKey)
	}
	if !found || !strings.EqualFold(stored.(string), strings.TrimSpace(code)) {
		return apierror.New("CAPTCHA_MISMATCH", "verification code is wrong or expired", "", http.StatusBadRequest)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, platform string, req model.LoginRequest) (model.TokenPair, error) {
	if err := s.checkCaptcha(req.CodeKey, req.Code); err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindByAccount(ctx, platform, req.Account)
	if err != nil {
		// Do not leak whether the account exists.
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "invalid credentials", "", http.StatusUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "invalid credentials", "", http.StatusUnauthorized)
	}

	return s.tokens.Issue(model.AuthUser{
		ID:       user.ID,
		Account:  user.Account,
		Nickname: user.Nickname,
		Platform: user.Platform,
		Roles:    user.RoleKeys(),
	}, platform)
}

func (s *AuthService) Refresh(refreshToken string, platform string) (string, error) {
	return s.tokens.Refresh(refreshToken, platform)
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.AuthUser{}, err
	}

	return model.AuthUser{
		ID:       user.ID,
		Account:  user.Account,
		Nickname: user.Nickname,
		Platform: user.Platform,
		Roles:    user.RoleKeys(),
	}, nil
}

// Tokens exposes the issuer for cookie TTL lookups in the handler.
func (s *AuthService) Tokens() *auth.TokenService {
	return s.tokens
}
