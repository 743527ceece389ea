package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rlongio/bridgetech-utility/internal/config"
	"github.com/rlongio/bridgetech-utility/internal/db"
	"github.com/rlongio/bridgetech-utility/internal/elevator/ingest"
	"github.com/rlongio/bridgetech-utility/internal/elevator/service"
	"github.com/rlongio/bridgetech-utility/internal/elevator/store/sqlite"
	"github.com/rlongio/bridgetech-utility/internal/httpapi"
)

func main() {
	logger := log.New(os.Stdout, "bridgetech-server ", log.LstdFlags|log.LUTC)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	database, err := db.Open(ctx, db.Config{Path: cfg.DB.Path, Env: cfg.DB.Env})
	if err != nil {
		logger.Fatalf("db: %v", err)
	}
	defer database.Close()

	if cfg.DB.Env == "dev" {
		if err := db.SeedDev(ctx, database, db.SeedDevOptions{}); err != nil {
			logger.Fatalf("db seed: %v", err)
		}
	}

	writer := db.NewWorker(database)
	defer writer.Close()

	deviceStore := sqlite.NewDeviceStore(database, writer)
	eventStore := sqlite.NewEventStore(database, writer)

	// Services
	registry := service.NewDeviceRegistry(deviceStore)
	ingestSvc := service.NewIngestService(registry, eventStore)
	statsSvc := service.NewStatsService(eventStore, cfg.Stats.Window)

	pruner := service.NewEventPruner(eventStore, service.PrunerConfig{
		RetentionDays: cfg.Retention.Days,
		IntervalHours: cfg.Retention.IntervalHours,
	}, logger)
	pruner.Start(ctx)
	defer pruner.Stop()

	// Optional ingest surfaces
	if cfg.Ingest.SpoolDir != "" {
		watcher := ingest.NewWatcher(cfg.Ingest.SpoolDir, ingestSvc, logger)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Printf("spool watcher stopped: %v", err)
			}
		}()
	}

	if len(cfg.Kafka.Brokers) > 0 {
		consumer := ingest.NewConsumer(ingest.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, ingestSvc, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Printf("kafka consumer stopped: %v", err)
			}
		}()
	}

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger: logger,
		Addr:   cfg.Server.Addr,
		Ingest: ingestSvc,
		Stats:  statsSvc,
	})

	go func() {
		logger.Printf("listening on %s", cfg.Server.Addr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
