// Package ledgerservice boots the stake ledger HTTP service.
package ledgerservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/onusone/stakeledger/internal/api"
	"github.com/onusone/stakeledger/internal/auth"
	"github.com/onusone/stakeledger/internal/config"
	"github.com/onusone/stakeledger/internal/events"
	"github.com/onusone/stakeledger/internal/factory"
	"github.com/onusone/stakeledger/internal/health"
	"github.com/onusone/stakeledger/internal/logger"
	"github.com/onusone/stakeledger/internal/store"
)

// Run starts the stake ledger HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("stake-ledger")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Stake ledger starting")

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}

	bus := events.NewBus(cfg.EventBuffer)
	go runAuditConsumer(ctx, bus, log)

	svcHealth := startHealthCheckers(ctx, cfg, log, st)

	router := api.NewRouter(st, bus, auth.NewPassthroughAuthorizer(), svcHealth.IsHealthy)

	// Block startup until dependencies report healthy; fail fast otherwise.
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// runAuditConsumer drains the event bus into the structured log so accepted
// mutations leave an operator-visible trail even without log scraping of
// request paths.
func runAuditConsumer(ctx context.Context, bus *events.Bus, log zerolog.Logger) {
	ch := bus.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			log.Info().
				Str("kind", string(evt.Kind)).
				Str("user", evt.User).
				Str("content_id", evt.ContentID).
				Uint64("amount", evt.Amount).
				Uint64("decay_loss", evt.DecayLoss).
				Time("occurred_at", evt.OccurredAt).
				Msg("ledger event")
		}
	}
}

// startHealthCheckers starts the store checker and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	probeTimeout := 5 * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, cfg.HealthInterval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, cfg.HealthInterval)
	return svcHealth
}

// waitUntilHealthy blocks until service health is healthy or the startup
// deadline expires. Checkers start unhealthy and need one probe cycle.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	deadline := time.Now().Add(cfg.StartupDeadline)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %s", cfg.StartupDeadline)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
