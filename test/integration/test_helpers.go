//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-admin-console/internal/auth"
	"go-admin-console/internal/config"
	"go-admin-console/internal/database"
	"go-admin-console/internal/event"
	"go-admin-console/internal/handler"
	"go-admin-console/internal/middleware"
	"go-admin-console/internal/model"
	"go-admin-console/internal/repository"
	"go-admin-console/internal/router"
	"go-admin-console/internal/service"
	"go-admin-console/internal/storage"
	"go-admin-console/internal/websocket"
)

// envelope mirrors the wire format for assertions.
type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *model.Meta     `json:"meta"`
}

type testEnv struct {
	Server *httptest.Server
	DB     *database.DB
	Users  *repository.UserRepository
	Roles  *repository.RoleRepository
	Bus    event.Bus
}

// newTestEnv wires the full HTTP surface against the database named by
// TEST_DATABASE_URL and skips when it is unset.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	db, err := database.New(ctx, dbURL, 4, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))

	cfg := &config.Config{
		RequestTimeout: 30 * time.Second,
		JWT: map[string]config.PlatformJWT{
			"admin": {Secret: "test-secret", AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour},
		},
		WhitelistExact: []string{
			"/api/v1/admin/auth/login",
			"/api/v1/admin/auth/captcha",
			"/api/v1/admin/auth/refresh",
		},
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
		MaxUploadSize:    10 * 1024 * 1024,
		ChunkMaxSize:     1024 * 1024,
		CaptchaTTL:       time.Minute,
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	routeRepo := repository.NewRouteRepository(pool)
	noticeRepo := repository.NewNoticeRepository(pool)
	dictRepo := repository.NewDictRepository(pool)
	emailRepo := repository.NewEmailTemplateRepository(pool)
	reqLogRepo := repository.NewRequestLogRepository(pool)

	tokenService := auth.NewTokenService(cfg.JWT)
	whitelist := auth.NewWhitelist(cfg.WhitelistPrefixes, cfg.WhitelistExact)
	authMiddleware := middleware.NewAuthMiddleware(tokenService, whitelist)

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	store, err := storage.New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	uploadService, err := service.NewUploadService(store, filepath.Join(t.TempDir(), "chunks"), cfg.MaxUploadSize, cfg.ChunkMaxSize)
	require.NoError(t, err)

	authService := service.NewAuthService(userRepo, tokenService, cfg.CaptchaTTL)
	userService := service.NewUserService(userRepo)
	reqLogService := service.NewRequestLogService(reqLogRepo)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	t.Cleanup(workerCancel)
	go reqLogService.Start(workerCtx)

	appRouter := router.New(cfg, authMiddleware, middleware.RequestLog(reqLogService), hub, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		User:   handler.NewUserHandler(userService),
		Role:   handler.NewRoleHandler(service.NewRoleService(roleRepo)),
		Route:  handler.NewRouteHandler(service.NewRouteService(routeRepo), userService),
		Notice: handler.NewNoticeHandler(service.NewNoticeService(noticeRepo, bus)),
		Dict:   handler.NewDictHandler(service.NewDictService(dictRepo)),
		Upload: handler.NewUploadHandler(uploadService, cfg.MaxUploadSize, cfg.ChunkMaxSize),
		Email:  handler.NewEmailHandler(service.NewEmailService(emailRepo, nil)),
		Log:    handler.NewLogHandler(reqLogService),
		Docs:   handler.NewDocsHandler(filepath.Join("..", "..", "docs", "openapi.yaml")),
	})

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)

	return &testEnv{Server: server, DB: db, Users: userRepo, Roles: roleRepo, Bus: bus}
}

// createAdmin inserts a unique admin-role account straight through the
// repositories, returning the account name.
func (env *testEnv) createAdmin(t *testing.T, password string) string {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()
	suffix := uuid.NewString()[:8]

	role := model.Role{
		ID:        uuid.NewString(),
		Name:      "Admin " + suffix,
		RoleKey:   "admin",
		Platform:  "admin",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := env.Roles.Create(ctx, role, nil); err != nil {
		// The admin role may already exist from an earlier run; look it up.
		roles, listErr := env.Roles.List(ctx, "admin", "ASC")
		require.NoError(t, listErr)
		found := false
		for _, existing := range roles {
			if existing.RoleKey == "admin" {
				role = existing
				found = true
				break
			}
		}
		require.True(t, found, "admin role neither created nor found: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	account := "it-admin-" + suffix
	user := model.User{
		ID:           uuid.NewString(),
		Account:      account,
		Nickname:     "Integration Admin",
		PasswordHash: string(hash),
		Platform:     "admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, env.Users.Create(ctx, user, []string{role.ID}))

	return account
}

// loginAdmin drives the captcha+login flow and returns the token pair.
func (env *testEnv) loginAdmin(t *testing.T, account string, password string) model.TokenPair {
	t.Helper()

	captcha := getJSON(t, nil, env.Server.URL+"/api/v1/admin/auth/captcha", "")
	var captchaData struct {
		CodeKey string `json:"code_key"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(captcha.Data, &captchaData))

	resp := postJSON(t, env.Server.URL+"/api/v1/admin/auth/login", model.LoginRequest{
		Account:  account,
		Password: password,
		Code:     captchaData.Code,
		CodeKey:  captchaData.CodeKey,
	}, "")
	require.Equal(t, "OK", resp.Code)

	var pair model.TokenPair
	require.NoError(t, json.Unmarshal(resp.Data, &pair))
	require.NotEmpty(t, pair.AccessToken)
	return pair
}

func doJSON(t *testing.T, method string, url string, payload any, token string) (*http.Response, envelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp, env
}

func postJSON(t *testing.T, url string, payload any, token string) envelope {
	t.Helper()
	_, env := doJSON(t, http.MethodPost, url, payload, token)
	return env
}

func getJSON(t *testing.T, _ any, url string, token string) envelope {
	t.Helper()
	_, env := doJSON(t, http.MethodGet, url, nil, token)
	return env
}

func statusOf(t *testing.T, method string, url string, payload any, token string) int {
	t.Helper()
	resp, _ := doJSON(t, method, url, payload, token)
	return resp.StatusCode
}
