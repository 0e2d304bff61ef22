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

	"golang.org/x/sync/errgroup"

	"studiogate/internal/audit"
	"studiogate/internal/catalog"
	"studiogate/internal/eligibility"
	"studiogate/internal/identity"
	"studiogate/internal/platform/config"
	"studiogate/internal/platform/httpserver"
	"studiogate/internal/platform/logger"
	"studiogate/internal/platform/metrics"
	"studiogate/internal/platform/postgres"
	"studiogate/internal/platform/redis"
	"studiogate/internal/profile"
	"studiogate/internal/provisioning"
	"studiogate/internal/session"
	httptransport "studiogate/internal/transport/http"
)

// main wires dependencies and keeps the lifecycle small. Business logic
// lives in the internal service packages.
func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	pool, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	// Stores fall back to memory when no backend is configured, keeping
	// local development dependency-free.
	var profiles profile.Store
	var packages catalog.Store
	var health []httptransport.HealthCheck
	switch {
	case pool != nil:
		profileStore := profile.NewPostgresStore(pool)
		if err := profileStore.EnsureSchema(ctx); err != nil {
			return err
		}
		catalogStore := catalog.NewPostgresStore(pool)
		if err := catalogStore.EnsureSchema(ctx); err != nil {
			return err
		}
		profiles = profileStore
		packages = catalogStore
		health = append(health, httptransport.HealthCheck{Name: "postgres", Check: pool.Ping})
	case redisClient != nil:
		profiles = profile.NewRedisStore(redisClient.Client)
		packages = catalog.NewMemoryStore()
		health = append(health, httptransport.HealthCheck{Name: "redis", Check: redisClient.Health})
	default:
		profiles = profile.NewMemoryStore()
		packages = catalog.NewMemoryStore()
	}
	if err := catalog.Seed(ctx, packages); err != nil {
		return err
	}

	auditPublisher := audit.NewPublisher(log, 0)
	auditStore := audit.NewInMemoryStore()
	var sinks []audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		if err := kafkaSink.EnsureTopic(ctx, 3); err != nil {
			return err
		}
		sinks = append(sinks, kafkaSink)
	}
	auditWorker := audit.NewWorker(auditStore, auditPublisher.Inbox(), log, sinks...)

	issuer := identity.NewTokenIssuer(cfg.Token)
	provider := identity.NewMemoryProvider(issuer)
	verifier := identity.NewTokenVerifier(cfg.Token)

	reconciler := session.NewReconciler(provider, profiles,
		session.WithLogger(log),
		session.WithTokenVerifier(verifier),
		session.WithAuditPublisher(auditPublisher),
		session.WithMetrics(session.NewMetrics()),
	)

	eligibilityService := eligibility.NewService(profiles, packages,
		eligibility.WithLogger(log),
		eligibility.WithAuditPublisher(auditPublisher),
		eligibility.WithMetrics(eligibility.NewMetrics()),
	)

	provisioningService := provisioning.NewService(provider, profiles, packages,
		provisioning.NewMemoryInviteStore(),
		provisioning.WithLogger(log),
		provisioning.WithAuditPublisher(auditPublisher),
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Sessions:     httptransport.NewSessionHandler(reconciler, log),
		Eligibility:  httptransport.NewEligibilityHandler(eligibilityService, log),
		Admin:        httptransport.NewAdminHandler(provisioningService, reconciler, log),
		Metrics:      metrics.New(),
		HealthChecks: health,
	})
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return auditWorker.Run(groupCtx)
	})
	group.Go(func() error {
		return reconciler.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("starting studiogate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
