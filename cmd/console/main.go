package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bedolaga/bedolaga-console/internal/actions"
	"github.com/bedolaga/bedolaga-console/internal/app"
	"github.com/bedolaga/bedolaga-console/internal/audit"
	"github.com/bedolaga/bedolaga-console/internal/auth"
	"github.com/bedolaga/bedolaga-console/internal/observability"
	"github.com/bedolaga/bedolaga-console/internal/overview"
	"github.com/bedolaga/bedolaga-console/internal/platform/cache"
	"github.com/bedolaga/bedolaga-console/internal/platform/db"
	"github.com/bedolaga/bedolaga-console/internal/ratelimit"
	"github.com/bedolaga/bedolaga-console/internal/rbac"
	"github.com/bedolaga/bedolaga-console/internal/security"
	"github.com/bedolaga/bedolaga-console/internal/shared"
	"github.com/bedolaga/bedolaga-console/internal/subscriptions"
	"github.com/bedolaga/bedolaga-console/internal/users"
	"github.com/bedolaga/bedolaga-console/internal/view"
	"github.com/bedolaga/bedolaga-console/internal/webapi"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "bedolaga_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret, cfg.CSRFCookieName, cfg.CSRFHeaderName, cfg.CSRFTokenTTL)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	rbacService := rbac.NewService(dbpool)
	if err := rbacService.EnsureDefaultRoles(ctx); err != nil {
		logger.Error("seed default roles", slog.Any("error", err))
		os.Exit(1)
	}
	rbacMiddleware := rbac.Middleware{Source: rbacService, Logger: logger}

	securityRepo := security.NewRepository(dbpool)
	securityService := security.NewService(securityRepo)
	if _, err := securityService.Snapshot(ctx); err != nil {
		logger.Error("seed security settings", slog.Any("error", err))
		os.Exit(1)
	}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager, cfg.IsProduction())

	var apiClient *webapi.Client
	if apiCfg := cfg.WebAPIConfig(); apiCfg.Configured() {
		apiClient, err = webapi.NewClient(apiCfg)
		if err != nil {
			logger.Error("init web API client", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Warn("web API credentials missing, actions disabled")
	}

	metrics := observability.NewMetrics()
	recorder := audit.NewRecorder(dbpool, logger)
	auditService := audit.NewService(dbpool)
	subscriptionRepo := subscriptions.NewRepository(dbpool)
	registry := actions.NewRegistry()

	var remote actions.RemoteAPI
	if apiClient != nil {
		remote = apiClient
	}
	executor := actions.NewExecutor(
		logger,
		registry,
		rbacService,
		securityService,
		ratelimit.New(),
		csrfManager,
		remote,
		subscriptionRepo,
		recorder,
	)
	executor.SetObserver(metrics.ObserveAction)

	actionsHandler := actions.NewHandler(logger, registry, executor, rbacService, templates, csrfManager, cfg.IsProduction())
	auditHandler := audit.NewHandler(logger, auditService, templates)
	securityHandler := security.NewHandler(logger, securityService, templates, csrfManager, cfg.IsProduction())
	userRepo := users.NewRepository(dbpool)
	usersHandler := users.NewHandler(logger, userRepo, subscriptionRepo, templates)
	overviewHandler := overview.NewHandler(logger, userRepo, auditService, templates, apiClient != nil)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		AuthHandler:     authHandler,
		OverviewHandler: overviewHandler,
		ActionsHandler:  actionsHandler,
		AuditHandler:    auditHandler,
		SecurityHandler: securityHandler,
		UsersHandler:    usersHandler,
		RBACMiddleware:  rbacMiddleware,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
