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

	"workforce-api/internal/cache"
	"workforce-api/internal/config"
	"workforce-api/internal/database"
	"workforce-api/internal/event"
	"workforce-api/internal/handler"
	"workforce-api/internal/middleware"
	"workforce-api/internal/repository"
	"workforce-api/internal/router"
	"workforce-api/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	ctx := context.Background()

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	sellerRepo := repository.NewSellerRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	slog.Info("database ready")

	a := &App{db: db}
	a.cleanupFuncs = append(a.cleanupFuncs, db.Close)

	bus := event.NewBus()
	eventsCtx, stopEvents := context.WithCancel(context.Background())
	a.cleanupFuncs = append(a.cleanupFuncs, stopEvents)

	go event.NewAuditLogger(log).Run(eventsCtx, bus)

	if cfg.AMQPURL != "" {
		publisher, err := event.DialAMQP(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			slog.Warn("amqp unavailable; events stay local", "error", err)
		} else {
			go publisher.Run(eventsCtx, bus)
			a.cleanupFuncs = append(a.cleanupFuncs, func() { _ = publisher.Close() })
		}
	}

	issuer := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	ledgerOpts := []service.LedgerOption{service.WithLedgerEvents(bus)}

	if cfg.RedisURL != "" {
		revocations, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable; revocation checks go to the database", "error", err)
		} else {
			ledgerOpts = append(ledgerOpts, service.WithRevocationCache(revocations))
			a.cleanupFuncs = append(a.cleanupFuncs, func() { _ = revocations.Close() })
		}
	}

	ledger := service.NewTokenLedger(tokenRepo, issuer, ledgerOpts...)
	authService := service.NewAuthService(service.NewCredentialVerifier(userRepo), issuer, ledger)
	workforceService := service.NewWorkforceService(userRepo, sellerRepo, cfg.BcryptCost, bus)

	appRouter := router.New(
		cfg,
		log,
		middleware.NewAuthMiddleware(issuer, ledger),
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(workforceService),
		handler.NewSellerHandler(workforceService),
		handler.NewHealthHandler(db),
	)

	a.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return a, nil
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

	shutdownErr := a.server.Shutdown(ctx)

	// Release dependencies in reverse order of acquisition.
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
