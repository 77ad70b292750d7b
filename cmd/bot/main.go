package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"max.ks1230/moneyezy-bot/internal/clients/cache"
	"max.ks1230/moneyezy-bot/internal/clients/kafka"
	"max.ks1230/moneyezy-bot/internal/clients/tg"
	"max.ks1230/moneyezy-bot/internal/config"
	"max.ks1230/moneyezy-bot/internal/logger"
	"max.ks1230/moneyezy-bot/internal/model/janitor"
	"max.ks1230/moneyezy-bot/internal/model/messages"
	"max.ks1230/moneyezy-bot/internal/model/prefs"
	"max.ks1230/moneyezy-bot/internal/model/render"
	"max.ks1230/moneyezy-bot/internal/model/storage"
	"max.ks1230/moneyezy-bot/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

type botStorage interface {
	messages.Storage
	Close() error
}

func main() {
	defer logger.Sync()
	logger.Info("Bot init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	closer, err := tracing.Init(conf.Tracing())
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer closer.Close()

	db, err := newStorage(conf)
	if err != nil {
		logger.Fatal("failed to init storage:", zap.Error(err))
	}
	defer db.Close()

	client, err := tg.New(conf.Telegram())
	if err != nil {
		logger.Fatal("failed to init client:", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fs := afero.NewOsFs()
	media := render.NewMediaStore(fs, conf.Media().Dir())
	deps := messages.Deps{
		Sender:   client,
		Storage:  db,
		UIModes:  prefs.NewRegistry(fs, conf.Prefs().Dir()),
		Media:    media,
		Renderer: render.NewCardRenderer(nil),
		Config:   conf.App(),
	}

	if conf.Memcached().Enabled() {
		mc, err := cache.NewMemcache(conf.Memcached())
		if err != nil {
			logger.Fatal("failed to init memcached:", zap.Error(err))
		}
		deps.CardCache = mc
		deps.Renderer = render.NewCardRenderer(mc)
	}

	if conf.Kafka().Enabled() {
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			logger.Fatal("failed to init kafka producer:", zap.Error(err))
		}
		defer producer.Close()
		deps.Publisher = producer
	}

	msgService := messages.NewService(ctx, deps)
	defer msgService.Close()

	logger.Info("Bot init - end")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveMetrics(ctx, conf.App().MetricsAddr())
	})
	g.Go(func() error {
		janitor.NewSweeper(media, conf.Media()).Run(ctx)
		return nil
	})
	g.Go(func() error {
		client.ListenUpdates(ctx, msgService)
		return nil
	})

	if err = g.Wait(); err != nil {
		logger.Error("bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func newStorage(conf *config.Service) (botStorage, error) {
	if conf.App().Storage() != config.StoragePostgres {
		logger.Info("using in-memory storage")
		return storage.NewInMemStorage(), nil
	}

	if err := storage.RunMigrations(conf.Postgres().URL()); err != nil {
		return nil, err
	}
	db, err := storage.NewPostgresStorage(conf.Postgres())
	if err != nil {
		return nil, err
	}
	return db, nil
}

func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: shutdownTimeout}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
