// cmd/livest-api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livest/internal/api/router"
	"livest/internal/common/auth"
	"livest/internal/common/camunda"
	"livest/internal/common/config"
	"livest/internal/common/database"
	"livest/internal/common/geocoding"
	"livest/internal/common/logger"
	"livest/internal/common/observability"
	"livest/internal/common/search"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": "livest-api"})

	log.Info("starting livest api", map[string]interface{}{
		"environment":   cfg.App.Environment,
		"searchBackend": cfg.Search.Backend,
	})

	obs, err := observability.New("livest-api")
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := database.RetryWithBackoff(func() error { return pg.Ping(ctx) }, 10, 2*time.Second, log, "PostgreSQL connection"); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	// --- Redis: sessions and property cache ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis init failed", zap.Error(err))
	}
	defer rdb.Close()
	if err := database.RetryWithBackoff(func() error { return rdb.Ping(ctx) }, 10, 2*time.Second, log, "Redis connection"); err != nil {
		zapLog.Fatal("redis unreachable", zap.Error(err))
	}

	deps := router.Dependencies{
		Config:         cfg,
		DB:             pg,
		Redis:          rdb,
		Sessions:       auth.NewRedisSessionStore(rdb, cfg.Auth.SessionKeyPrefix),
		Geocoder:       geocoding.NewNominatim(cfg.Geocoding),
		Publisher:      camunda.NoopPublisher{},
		Observability:  obs,
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	// --- Elasticsearch: optional search backend and property index ---
	if cfg.Database.Elasticsearch.GetURL() != "" {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch init failed", zap.Error(err))
		}
		if err := es.EnsureIndex(ctx, cfg.Search.IndexName, search.Mapping); err != nil {
			if cfg.Search.Backend == config.SearchBackendElasticsearch {
				zapLog.Fatal("elasticsearch index unavailable", zap.Error(err))
			}
			log.Warn("elasticsearch unavailable, property indexing disabled", map[string]interface{}{"error": err.Error()})
		} else {
			deps.Elasticsearch = es
			deps.Indexer = search.NewIndexer(es.Client, cfg.Search.IndexName)
		}
	}

	// --- Zeebe: lifecycle messages ---
	if cfg.Camunda.Enabled {
		zeebe, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		if err != nil {
			zapLog.Fatal("zeebe client failed", zap.Error(err))
		}
		defer zeebe.Close()
		deps.Publisher = camunda.NewZeebePublisher(zeebe.GetClient(), time.Hour)
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.New(deps),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		log.Info("http server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining requests", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("observability shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("livest api stopped", nil)
}
