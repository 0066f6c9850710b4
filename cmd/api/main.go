package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"procurement_backend/internal/audit"
	"procurement_backend/internal/catalog"
	"procurement_backend/internal/events"
	"procurement_backend/internal/fulfillment"
	apphttp "procurement_backend/internal/http"
	"procurement_backend/internal/http/router"
	"procurement_backend/internal/lineitems"
	"procurement_backend/internal/notify"
	"procurement_backend/internal/purchases"
	"procurement_backend/internal/scheduler"
	"procurement_backend/internal/tenders"
	"procurement_backend/platform/config"
	"procurement_backend/platform/db"
	"procurement_backend/platform/logger"
	"procurement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	tendersModule := tenders.NewModule(pool, eventBus, val)
	catalogModule := catalog.NewModule(pool, val)
	lineItemsModule := lineitems.NewModule(pool, tendersModule.Service(), eventBus, val, log)
	purchasesModule := purchases.NewModule(pool, catalogModule.Service(), eventBus, val, log)
	fulfillmentModule := fulfillment.NewModule(pool, val)

	// Event consumers. The audit trail subscribes to every domain event the
	// modules above publish.
	auditModule := audit.NewModule(log)
	auditModule.RegisterHandlers(eventBus)

	// Digest worker is optional: without Redis the API runs request-scoped only.
	startDigestWorker(ctx, cfg, pool, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			tendersModule,
			catalogModule,
			lineItemsModule,
			purchasesModule,
			fulfillmentModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// startDigestWorker wires the asynq worker and periodic enqueuer for the
// unmatched-lines digest when Redis and SMTP recipients are configured.
func startDigestWorker(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; unmatched digest disabled")
		return
	}
	if !cfg.IsDigestEnabled() {
		log.Info("unmatched digest disabled by configuration")
		return
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return
	}

	sender := notify.NewDigestSender(cfg)
	worker, err := scheduler.NewWorker(cfg, pool, sender, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		_ = client.Close()
		return
	}

	go worker.Run(ctx)
	go scheduler.NewUnmatchedDigestScheduler(client, log, cfg.GetUnmatchedDigestInterval()).Run(ctx)
	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()

	log.Info("unmatched digest worker started", "interval", cfg.GetUnmatchedDigestInterval())
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
