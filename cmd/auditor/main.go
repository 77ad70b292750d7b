package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"max.ks1230/moneyezy-bot/internal/clients/kafka"
	"max.ks1230/moneyezy-bot/internal/config"
	"max.ks1230/moneyezy-bot/internal/logger"
	"max.ks1230/moneyezy-bot/internal/model/audit"
	"max.ks1230/moneyezy-bot/internal/model/storage"
	"max.ks1230/moneyezy-bot/internal/tracing"
)

func main() {
	defer logger.Sync()
	logger.Info("Auditor init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}
	if !conf.Kafka().Enabled() {
		logger.Fatal("kafka brokers and events topic are required")
	}

	closer, err := tracing.Init(conf.Tracing())
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer closer.Close()

	if err = storage.RunMigrations(conf.Postgres().URL()); err != nil {
		logger.Fatal("failed to run migrations:", zap.Error(err))
	}
	db, err := storage.NewPostgresStorage(conf.Postgres())
	if err != nil {
		logger.Fatal("failed to init postgres:", zap.Error(err))
	}
	defer db.Close()

	consumer, err := kafka.NewConsumer(conf.Kafka(), audit.NewRecorder(db))
	if err != nil {
		logger.Fatal("failed to init kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	logger.Info("Auditor init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.StartConsuming(ctx)
	})

	if err = g.Wait(); err != nil {
		logger.Error("auditor stopped with error", zap.Error(err))
	}
	logger.Info("Auditor stopped")
}
