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

	"github.com/redis/go-redis/v9"

	"helpdesk-console/internal/client"
	"helpdesk-console/internal/config"
	"helpdesk-console/internal/database"
	"helpdesk-console/internal/event"
	"helpdesk-console/internal/feedback"
	"helpdesk-console/internal/guard"
	"helpdesk-console/internal/handler"
	"helpdesk-console/internal/repository"
	"helpdesk-console/internal/router"
	"helpdesk-console/internal/service"
	"helpdesk-console/internal/session"
	"helpdesk-console/internal/websocket"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, cleanup, err := buildSessionStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		cleanup()
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	slog.Info("database ready")

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	auditRepo := repository.NewAuditRepository(db.Pool)
	auditService := service.NewAuditService(auditRepo, bus)

	// All toast and loader activity flows onto the bus so open console
	// tabs receive it over the push socket.
	center := feedback.NewCenter()
	center.RegisterToast(func(t feedback.Toast) {
		bus.Emit(event.TypeToast, t)
	})
	center.RegisterLoader(func(visible bool) {
		if visible {
			bus.Emit(event.TypeLoaderShown, nil)
		} else {
			bus.Emit(event.TypeLoaderHidden, nil)
		}
	})

	cookies, err := guard.NewCookieCodec(cfg.SessionSecret, cfg.SessionCookieTTL, cfg.SecureCookies)
	if err != nil {
		cleanup()
		db.Close()
		return nil, fmt.Errorf("failed to initialize cookie codec: %w", err)
	}
	g := guard.New(cookies, store)

	deps := client.Deps{
		BaseURL:    cfg.BackendBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		Tokens:     guard.SessionTokens{Store: store},
		Feedback:   center,
		MaxRetries: cfg.RetryAttempts,
		BaseDelay:  cfg.RetryBaseDelay,
	}

	previewService, err := service.NewPreviewService(cfg.PreviewCacheDir, cfg.PreviewMaxEdge)
	if err != nil {
		cleanup()
		db.Close()
		return nil, fmt.Errorf("failed to initialize preview service: %w", err)
	}

	appRouter := router.New(cfg, g, hub,
		handler.NewPageHandler(),
		handler.NewAuthHandler(client.NewAuthAPI(deps), store, cookies, auditService, bus),
		handler.NewMenuHandler(),
		handler.NewTicketHandler(client.NewTicketAPI(deps), previewService, auditService),
		handler.NewUserHandler(client.NewUserAPI(deps), auditService),
		handler.NewOrgHandler(client.NewOrgAPI(deps), auditService),
		handler.NewSettingsHandler(client.NewSettingsAPI(deps), auditService),
		handler.NewDashboardHandler(client.NewDashboardAPI(deps), client.NewReportAPI(deps), auditService),
		handler.NewAuditHandler(auditService),
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() { db.Close() },
			cleanup,
		},
	}, nil
}

func buildSessionStore(cfg *config.Config) (session.Store, func(), error) {
	if cfg.SessionBackend == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		store, err := session.NewRedisStore(rdb, cfg.SessionSecret, cfg.SessionCookieTTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = rdb.Close() }, nil
	}

	store, err := session.NewMemoryStore(cfg.SessionSecret, cfg.SessionCookieTTL)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
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

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
