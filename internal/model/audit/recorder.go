package audit

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/entity/event"
	"max.ks1230/moneyezy-bot/internal/logger"
)

var ErrInvalidEvent = event.ErrInvalid

var counterRecorded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "moneyezy",
		Subsystem: "audit",
		Name:      "events_recorded_total",
	},
	[]string{"kind"},
)

type eventStorage interface {
	SaveEvent(ctx context.Context, ev event.TransactionEvent) error
}

// Recorder appends every transaction event it receives to the audit trail.
type Recorder struct {
	storage eventStorage
}

func NewRecorder(storage eventStorage) *Recorder {
	return &Recorder{storage: storage}
}

func (r *Recorder) HandleTransactionEvent(ctx context.Context, ev event.TransactionEvent) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "recordTransactionEvent")
	defer span.Finish()

	if err := validate(ev); err != nil {
		ext.Error.Set(span, true)
		return err
	}

	if err := r.storage.SaveEvent(ctx, ev); err != nil {
		ext.Error.Set(span, true)
		return errors.Wrap(err, "record transaction event")
	}

	counterRecorded.WithLabelValues(string(ev.Kind)).Inc()
	logger.Debug("transaction event recorded",
		zap.String("kind", string(ev.Kind)),
		zap.Int64("userID", ev.UserID),
		zap.Int64("id", ev.TransactionID),
	)
	return nil
}

func validate(ev event.TransactionEvent) error {
	switch ev.Kind {
	case event.Created, event.Updated, event.Deleted:
	default:
		return errors.Wrapf(ErrInvalidEvent, "kind %q", ev.Kind)
	}
	if ev.UserID == 0 || ev.TransactionID == 0 {
		return errors.Wrap(ErrInvalidEvent, "missing ids")
	}
	if ev.Kind != event.Deleted && ev.Transaction == nil {
		return errors.Wrapf(ErrInvalidEvent, "%s without transaction", ev.Kind)
	}
	return nil
}
