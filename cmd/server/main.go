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
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	clientmodels "handover/internal/client/models"
	"handover/internal/client/resolver"
	"handover/internal/client/secrets"
	clientstore "handover/internal/client/store"
	"handover/internal/handover/handler"
	"handover/internal/handover/metrics"
	"handover/internal/handover/service"
	"handover/internal/handover/store"
	"handover/internal/handover/store/code"
	"handover/internal/jwttoken"
	"handover/internal/platform/config"
	"handover/internal/platform/httpserver"
	"handover/internal/platform/logger"
	platformmetrics "handover/internal/platform/metrics"
	platformredis "handover/internal/platform/redis"
	"handover/internal/session"
	"handover/pkg/platform/audit/publisher"
	auditmem "handover/pkg/platform/audit/store/memory"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handoverStore, directory, cleanup, err := buildStores(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	auditor := publisher.NewPublisher(auditmem.NewInMemoryStore(), publisher.WithAsyncBuffer(256))
	defer auditor.Close()

	svc := service.New(handoverStore, service.Config{
		BaseURL: cfg.BaseURL,
		TTL:     cfg.HandoverTTL,
	}, log, metrics.New(), auditor)

	jwtService := jwttoken.NewService(cfg.JWTSigningKey, cfg.Issuer)
	sessions := session.NewWriter(cfg.JWTSigningKey, cfg.Issuer, cfg.SessionCookieName, cfg.SessionTTL, cfg.SessionSecure)
	redirects := resolver.New(directory)

	httpMetrics := platformmetrics.New()
	h := handler.New(
		svc,
		redirects,
		sessions,
		jwttoken.CredentialsValidator{Service: jwtService},
		log,
		httpMetrics,
		auditor,
		cfg.DefaultClientID,
	)

	router := chi.NewRouter()
	h.Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting handover service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return svc.RunSweeper(gctx, cfg.SweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	log.Info("handover service stopped")
}

// buildStores selects the handover store and client directory backends from
// configuration. Redis and Postgres are optional; without either the service
// runs on in-memory stores, which is only suitable for a single instance.
func buildStores(ctx context.Context, cfg config.Server, log *slog.Logger) (store.Store, clientstore.Directory, func(), error) {
	noop := func() {}

	if cfg.Redis.URL != "" {
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, noop, err
		}
		log.Info("using redis handover store")
		directory, err := seedMemoryDirectory(cfg)
		if err != nil {
			client.Close()
			return nil, nil, noop, err
		}
		return code.NewRedis(client.Client), directory, func() { client.Close() }, nil
	}

	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, noop, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, noop, fmt.Errorf("postgres ping failed: %w", err)
		}
		for _, schema := range []string{code.Schema(), clientstore.Schema()} {
			if _, err := db.ExecContext(ctx, schema); err != nil {
				db.Close()
				return nil, nil, noop, fmt.Errorf("apply schema: %w", err)
			}
		}
		directory := clientstore.NewPostgresDirectory(db)
		if err := seedDirectory(ctx, cfg, directory); err != nil {
			db.Close()
			return nil, nil, noop, err
		}
		log.Info("using postgres handover store")
		return code.NewPostgres(db), directory, func() { db.Close() }, nil
	}

	log.Warn("no redis or postgres configured, using in-memory stores")
	directory, err := seedMemoryDirectory(cfg)
	if err != nil {
		return nil, nil, noop, err
	}
	return code.NewInMemory(), directory, noop, nil
}

func seedMemoryDirectory(cfg config.Server) (*clientstore.InMemoryDirectory, error) {
	directory := clientstore.NewInMemoryDirectory()
	for _, seed := range cfg.Clients {
		client, err := newSeedClient(seed)
		if err != nil {
			return nil, err
		}
		directory.Register(client)
	}
	return directory, nil
}

func seedDirectory(ctx context.Context, cfg config.Server, directory *clientstore.PostgresDirectory) error {
	for _, seed := range cfg.Clients {
		client, err := newSeedClient(seed)
		if err != nil {
			return err
		}
		if err := directory.Upsert(ctx, client); err != nil {
			return fmt.Errorf("seed client %s: %w", seed.ClientID, err)
		}
	}
	return nil
}

func newSeedClient(seed config.ClientSeed) (*clientmodels.RegisteredClient, error) {
	secret, err := secrets.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate secret for %s: %w", seed.ClientID, err)
	}
	hash, err := secrets.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret for %s: %w", seed.ClientID, err)
	}
	return clientmodels.NewRegisteredClient(
		seed.ClientID,
		seed.ClientID,
		hash,
		[]string{seed.RedirectURI},
		time.Now(),
	)
}
