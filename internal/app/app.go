package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-admin-console/internal/auth"
	"go-admin-console/internal/config"
	"go-admin-console/internal/database"
	"go-admin-console/internal/event"
	"go-admin-console/internal/handler"
	"go-admin-console/internal/metrics"
	"go-admin-console/internal/middleware"
	"go-admin-console/internal/repository"
	"go-admin-console/internal/router"
	"go-admin-console/internal/service"
	"go-admin-console/internal/storage"
	"go-admin-console/internal/websocket"
)

type App struct {
	server       *http.Server
	db           *database.DB
	reqLogs      *service.RequestLogService
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := metrics.Register(nil); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	store, err := storage.New(cfg.UploadRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	routeRepo := repository.NewRouteRepository(pool)
	noticeRepo := repository.NewNoticeRepository(pool)
	dictRepo := repository.NewDictRepository(pool)
	emailRepo := repository.NewEmailTemplateRepository(pool)
	reqLogRepo := repository.NewRequestLogRepository(pool)
	slog.Info("database ready")

	if err := seedAdmin(context.Background(), userRepo, roleRepo, routeRepo); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	tokenService := auth.NewTokenService(cfg.JWT)
	whitelist := auth.NewWhitelist(cfg.WhitelistPrefixes, cfg.WhitelistExact)
	authMiddleware := middleware.NewAuthMiddleware(tokenService, whitelist)

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	authService := service.NewAuthService(userRepo, tokenService, cfg.CaptchaTTL)
	userService := service.NewUserService(userRepo)
	roleService := service.NewRoleService(roleRepo)
	routeService := service.NewRouteService(routeRepo)
	noticeService := service.NewNoticeService(noticeRepo, bus)
	dictService := service.NewDictService(dictRepo)
	emailService := service.NewEmailService(emailRepo, mailerFromConfig(cfg))
	reqLogService := service.NewRequestLogService(reqLogRepo)

	uploadService, err := service.NewUploadService(store, cfg.ChunkTempDir, cfg.MaxUploadSize, cfg.ChunkMaxSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize upload service: %w", err)
	}

	appRouter := router.New(cfg, authMiddleware, middleware.RequestLog(reqLogService), hub, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		User:   handler.NewUserHandler(userService),
		Role:   handler.NewRoleHandler(roleService),
		Route:  handler.NewRouteHandler(routeService, userService),
		Notice: handler.NewNoticeHandler(noticeService),
		Dict:   handler.NewDictHandler(dictService),
		Upload: handler.NewUploadHandler(uploadService, cfg.MaxUploadSize, cfg.ChunkMaxSize),
		Email:  handler.NewEmailHandler(emailService),
		Log:    handler.NewLogHandler(reqLogService),
		Docs:   handler.NewDocsHandler("./docs/openapi.yaml"),
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	go uploadService.StartCleanupTicker(workerCtx, cfg.ChunkExpiry)
	go reqLogService.Start(workerCtx)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:  server,
		db:      db,
		reqLogs: reqLogService,
		cleanupFuncs: []func(){
			workerCancel,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	// Stop the background workers, then wait for the request log drain
	// before closing the pool it writes through.
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	select {
	case <-a.reqLogs.Stopped():
	case <-time.After(5 * time.Second):
		slog.Warn("request log drain timed out")
	}

	a.db.Close()

	slog.Info("server stopped")
	return nil
}

func mailerFromConfig(cfg *config.Config) service.Mailer {
	mailer := service.NewSMTPMailer(cfg)
	if mailer == nil {
		slog.Info("SMTP not configured, email sending disabled")
		return nil
	}
	return mailer
}
