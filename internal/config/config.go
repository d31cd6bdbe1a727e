package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Platforms are the tenant partitions. Every identity, role and route
// carries one of these tags, and each selects its own JWT secret/TTL pair
// and whitelist rules.
var Platforms = []string{"admin", "web", "app", "mini"}

// PlatformJWT holds one platform's token configuration. A platform whose
// secret is unset has no configuration: the auth gate then skips
// verification entirely for its requests.
type PlatformJWT struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	JWT map[string]PlatformJWT

	WhitelistPrefixes []string
	WhitelistExact    []string

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int

	UploadRoot    string
	MaxUploadSize int64
	ChunkTempDir  string
	ChunkMaxSize  int64
	ChunkExpiry   time.Duration

	CaptchaTTL time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 2)),

		JWT: loadPlatformJWT(),

		WhitelistPrefixes: splitCSV(getEnv("AUTH_WHITELIST_PREFIXES", "/swagger,/openapi.yaml,/api/v1/admin/uploads")),
		WhitelistExact: splitCSV(getEnv("AUTH_WHITELIST_EXACT",
			"/favicon.ico,"+
				"/api/v1/admin/auth/login,/api/v1/admin/auth/captcha,/api/v1/admin/auth/refresh,"+
				"/api/v1/web/auth/login,/api/v1/web/auth/captcha,/api/v1/web/auth/refresh,"+
				"/api/v1/app/auth/login,/api/v1/app/auth/captcha,/api/v1/app/auth/refresh,"+
				"/api/v1/mini/auth/login,/api/v1/mini/auth/captcha,/api/v1/mini/auth/refresh")),

		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:     getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM: getInt("AUTH_RATE_LIMIT_RPM", 10),

		UploadRoot:    getEnv("UPLOAD_ROOT", "./data/uploads"),
		MaxUploadSize: getInt64("MAX_UPLOAD_SIZE", 104857600),
		ChunkTempDir:  getEnv("CHUNK_TEMP_DIR", "./data/.chunks"),
		ChunkMaxSize:  getInt64("CHUNK_MAX_SIZE", 16777216),
		ChunkExpiry:   getDuration("CHUNK_EXPIRY", 24*time.Hour),

		CaptchaTTL: getDuration("CAPTCHA_TTL", 5*time.Minute),

		SMTPHost: strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort: getInt("SMTP_PORT", 587),
		SMTPUser: strings.TrimSpace(os.Getenv("SMTP_USER")),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: strings.TrimSpace(os.Getenv("SMTP_FROM")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadPlatformJWT reads the eight per-platform values (four platforms, two
// TTLs each) plus secrets from env vars named per platform, e.g.
// ADMIN_JWT_SECRET, ADMIN_ACCESS_TTL, ADMIN_REFRESH_TTL. Platforms with an
// empty secret are left out of the map.
func loadPlatformJWT() map[string]PlatformJWT {
	out := make(map[string]PlatformJWT, len(Platforms))
	for _, platform := range Platforms {
		prefix := strings.ToUpper(platform)
		secret := strings.TrimSpace(os.Getenv(prefix + "_JWT_SECRET"))
		if secret == "" {
			continue
		}
		out[platform] = PlatformJWT{
			Secret:     secret,
			AccessTTL:  getDuration(prefix+"_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: getDuration(prefix+"_REFRESH_TTL", 168*time.Hour),
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if len(c.JWT) == 0 {
		return fmt.Errorf("at least one platform JWT secret is required (e.g. ADMIN_JWT_SECRET)")
	}

	for platform, jc := range c.JWT {
		if jc.AccessTTL <= 0 || jc.RefreshTTL <= 0 {
			return fmt.Errorf("%s token TTLs must be positive", platform)
		}
	}

	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}

	if c.ChunkMaxSize <= 0 {
		return fmt.Errorf("CHUNK_MAX_SIZE must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if strings.TrimSpace(c.UploadRoot) == "" {
		return fmt.Errorf("UPLOAD_ROOT cannot be empty")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
