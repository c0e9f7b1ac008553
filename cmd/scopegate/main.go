package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/scopegate/scopegate/internal/access"
	"github.com/scopegate/scopegate/internal/app"
	"github.com/scopegate/scopegate/internal/audit"
	"github.com/scopegate/scopegate/internal/identity"
	"github.com/scopegate/scopegate/internal/members"
	"github.com/scopegate/scopegate/internal/observability"
	"github.com/scopegate/scopegate/internal/platform/cache"
	"github.com/scopegate/scopegate/internal/platform/db"
	"github.com/scopegate/scopegate/internal/shared"
	"github.com/scopegate/scopegate/internal/tenancy"
	"github.com/scopegate/scopegate/jobs"
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

	sessionManager := shared.NewSessionManager(redisClient, "scopegate_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	table, err := access.BuildTable(access.DefaultPolicies())
	if err != nil {
		logger.Error("build policy table", slog.Any("error", err))
		os.Exit(1)
	}

	identityRepo := identity.NewRepository(dbpool)
	principalCache := identity.NewCache(redisClient, cfg.PrincipalTTL)
	identityService := identity.NewService(identityRepo, principalCache, logger, metrics)
	authHandler := identity.NewHandler(logger, identityService, sessionManager, csrfManager)

	tenancyRepo := tenancy.NewRepository(dbpool)
	tenancyService := tenancy.NewService(tenancyRepo, tenancy.DefaultCatalog(), logger)
	scopeHandler := tenancy.NewHandler(logger)

	auditRecorder := audit.NewRecorder(dbpool, logger)

	guard := access.Middleware{
		Table:    table,
		Logger:   logger,
		Recorder: metrics,
		Denials:  auditRecorder,
	}
	navHandler := access.NewHandler(logger, table)
	membersHandler := members.NewHandler(logger, members.NewService(members.NewRepository(dbpool)), guard)
	auditHandler := audit.NewHandler(logger, dbpool, guard)

	roleChangeListener := identity.NewRoleChangeListener(redisClient, identityService, logger)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		CSRFManager:     csrfManager,
		Metrics:         metrics,
		IdentityService: identityService,
		TenancyService:  tenancyService,
		AuditRecorder:   auditRecorder,
		Guard:           guard,
		AuthHandler:     authHandler,
		ScopeHandler:    scopeHandler,
		NavHandler:      navHandler,
		MembersHandler:  membersHandler,
		AuditHandler:    auditHandler,
		JobsHandler:     jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		if err := roleChangeListener.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("runtime", slog.Any("error", err))
		os.Exit(1)
	}
}
