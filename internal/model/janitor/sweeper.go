package janitor

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/logger"
)

type mediaStore interface {
	Prune(before time.Time) (int, error)
}

type config interface {
	TTL() time.Duration
	SweepInterval() time.Duration
}

// Sweeper removes shared card images once they are older than the configured TTL.
type Sweeper struct {
	media    mediaStore
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(media mediaStore, config config) *Sweeper {
	return &Sweeper{
		media:    media,
		ttl:      config.TTL(),
		interval: config.SweepInterval(),
		now:      time.Now,
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	firstTick := make(chan struct{}, 1)
	firstTick <- struct{}{}

	logger.Info("Start sweeping shared media")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stop sweeping shared media")
			return
		// fake first tick to sweep leftovers from the previous run immediately
		case <-firstTick:
			s.sweepOnce(ctx)
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	span, _ := opentracing.StartSpanFromContext(ctx, "sweepMedia")
	defer span.Finish()

	removed, err := s.media.Prune(s.now().Add(-s.ttl))
	if err != nil {
		ext.Error.Set(span, true)
		logger.Error("failed to sweep shared media", zap.Error(err))
		return
	}
	span.SetTag("removed", removed)
	if removed > 0 {
		logger.Info("swept shared media", zap.Int("removed", removed))
	}
}
