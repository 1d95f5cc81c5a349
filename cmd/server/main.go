package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"accountd/internal/account"
	"accountd/internal/account/events"
	accountmetrics "accountd/internal/account/metrics"
	"accountd/internal/account/service"
	"accountd/internal/account/store"
	"accountd/internal/platform/config"
	"accountd/internal/platform/httpserver"
	"accountd/internal/platform/logger"
	platformmetrics "accountd/internal/platform/metrics"
	"accountd/internal/platform/postgres"
	platformredis "accountd/internal/platform/redis"
	"accountd/pkg/platform/circuit"
	"accountd/pkg/platform/httputil"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("accountd stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	var (
		db    *sql.DB
		cache *platformredis.Client
	)

	backend, db, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	cache, err = platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
		backend = store.NewCached(backend, cache.Client,
			store.WithCacheTTL(cfg.Redis.CacheTTL),
			store.WithCacheLogger(log),
		)
		log.Info("account cache enabled", "ttl", cfg.Redis.CacheTTL.String())
	}

	publisher, closePublisher, err := buildPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	mod, err := account.New(backend, log, platformmetrics.New(),
		service.WithPublisher(publisher),
		service.WithMetrics(accountmetrics.New()),
		service.WithSampleMax(cfg.SampleMax),
	)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", healthHandler(db, cache))
	mod.Routes(router)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting accountd", "addr", cfg.Addr, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down accountd")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func buildStore(ctx context.Context, cfg config.Server, log *slog.Logger) (store.Backend, *sql.DB, error) {
	if cfg.Store.Backend != config.BackendPostgres {
		log.Warn("using in-memory account store; data is lost on restart")
		return store.NewInMemory(), nil, nil
	}
	db, err := postgres.Open(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := store.NewPostgres(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return pg, db, nil
}

func buildPublisher(ctx context.Context, cfg config.Server, log *slog.Logger) (service.EventPublisher, func(), error) {
	publishers := events.Multi{events.NewLogPublisher(log)}
	if len(cfg.Kafka.Brokers) == 0 {
		return publishers, func() {}, nil
	}

	kafka, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, err
	}
	if err := kafka.EnsureTopic(ctx, 3, 1); err != nil {
		kafka.Close()
		return nil, nil, err
	}
	log.Info("publishing lifecycle events to kafka", "topic", cfg.Kafka.Topic)
	guarded := events.NewBreakerPublisher(kafka, nil, circuit.New("kafka"), log)
	return append(publishers, guarded), kafka.Close, nil
}

func healthHandler(db *sql.DB, cache *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		healthy := true
		if db != nil {
			checks["postgres"] = "ok"
			if err := db.PingContext(r.Context()); err != nil {
				checks["postgres"], healthy = err.Error(), false
			}
		}
		if cache != nil {
			checks["redis"] = "ok"
			if err := cache.Health(r.Context()); err != nil {
				checks["redis"], healthy = err.Error(), false
			}
		}
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, map[string]any{"healthy": healthy, "checks": checks})
	}
}
