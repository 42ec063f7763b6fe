// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsclient "livest/internal/common/aws"
	"livest/internal/common/camunda"
	"livest/internal/common/config"
	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/common/observability"
	"livest/internal/common/search"

	sn "livest/internal/workers/application/send-notification"
	spi "livest/internal/workers/property/sync-property-index"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": "worker-manager"})

	log.Info("starting worker manager", map[string]interface{}{"environment": cfg.App.Environment})

	obs, err := observability.New("worker-manager")
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = database.RetryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zbc := zeebe.GetClient()

	deployed, err := camunda.DeployProcesses(ctx, zbc)
	if err != nil {
		zapLog.Fatal("process deployment failed", zap.Error(err))
	}
	log.Info("processes deployed", map[string]interface{}{"resources": deployed})

	// --- Init PostgreSQL with retry ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := database.RetryWithBackoff(func() error { return pg.Ping(ctx) }, 15, 2*time.Second, log, "PostgreSQL connection"); err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}

	checks := map[string]readinessCheck{
		"postgres": pg.Ping,
		"zeebe":    zeebe.HealthCheck,
	}

	var workers []*camunda.Worker

	// --- send-application-notification ---
	snCfg := sn.LoadConfig(cfg)
	var sesClient awsclient.EmailSender
	var snsClient awsclient.SMSSender
	if snCfg.EmailEnabled {
		client, err := awsclient.NewSESClient(ctx, snCfg.AWSRegion)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		sesClient = client
	}
	if snCfg.SMSEnabled {
		client, err := awsclient.NewSNSClient(ctx, snCfg.AWSRegion)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		snsClient = client
	}
	notifier := sn.NewHandler(snCfg, pg.DB, sesClient, snsClient, log)
	workers = append(workers, camunda.StartWorker(zbc, sn.TaskType, config.GetWorkerConfig(cfg, sn.TaskType), notifier, log))

	// --- sync-property-index ---
	if cfg.Database.Elasticsearch.GetURL() == "" {
		log.Warn("elasticsearch not configured, index sync worker not started", nil)
	} else {
		spiCfg := spi.LoadConfig(cfg)
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch init failed", zap.Error(err))
		}
		err = database.RetryWithBackoff(func() error {
			return es.EnsureIndex(ctx, spiCfg.IndexName, search.Mapping)
		}, 15, 2*time.Second, log, "Elasticsearch index")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		checks["elasticsearch"] = es.Ping

		syncer := spi.NewHandler(spiCfg, pg.DB, search.NewIndexer(es.Client, spiCfg.IndexName), log)
		workers = append(workers, camunda.StartWorker(zbc, spi.TaskType, config.GetWorkerConfig(cfg, spi.TaskType), syncer, log))
	}

	// --- Health & Metrics Server ---
	healthServer := &http.Server{
		Addr:         cfg.Server.MetricsAddress,
		Handler:      newHealthMux(checks),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Server.MetricsAddress})
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	shutdownTimeout := config.GetDuration(cfg.Server.ShutdownTimeout)
	for _, w := range workers {
		w.Stop(shutdownTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing zeebe client", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("observability shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped gracefully", nil)
}
