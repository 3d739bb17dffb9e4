package usecase

import (
	"context"
	"fmt"
	"time"

	"SigFlow/internal/domain/models"
	drepo "SigFlow/internal/domain/repository"
	"SigFlow/pkg/bus"
	"SigFlow/pkg/logger"
)

// SignalDispatcher is the OMS side of the pipeline: it decodes each bus
// payload and relays it to the order gateway. It holds no durable state.
// Malformed payloads are discarded; order gateway errors are logged and the
// subscription keeps going.
type SignalDispatcher struct {
	logger  *logger.Logger
	topic   string
	orders  drepo.OrderPlacer
	journal drepo.SignalJournal
	metrics drepo.Metrics
}

func NewSignalDispatcher(
	lgr *logger.Logger,
	topic string,
	orders drepo.OrderPlacer,
	journal drepo.SignalJournal,
	metrics drepo.Metrics,
) *SignalDispatcher {
	return &SignalDispatcher{
		logger:  lgr,
		topic:   topic,
		orders:  orders,
		journal: journal,
		metrics: metrics,
	}
}

// Topic returns the signal topic this dispatcher consumes.
func (d *SignalDispatcher) Topic() string { return d.topic }

// Handle processes one payload. An error return tells the bus to log it;
// the subscription itself is never affected.
func (d *SignalDispatcher) Handle(ctx context.Context, payload []byte) error {
	msg, err := models.DecodeSignalMessage(payload)
	if err != nil {
		d.metrics.RecordError("decode")
		return fmt.Errorf("discarding malformed signal: %w", err)
	}

	start := time.Now()
	if err := d.orders.PlaceOrder(ctx, msg.AccountID, msg.Symbol, msg.SignalType); err != nil {
		d.metrics.RecordError("place_order")
		return fmt.Errorf("place order for account %d: %w", msg.AccountID, err)
	}
	d.metrics.RecordLatency("place_order_seconds", time.Since(start).Seconds())
	d.metrics.RecordSignal("dispatched", msg.Symbol, string(msg.SignalType))

	d.logger.Info("signal dispatched",
		logger.Int64("account_id", msg.AccountID),
		logger.String("account", msg.AccountName),
		logger.String("symbol", msg.Symbol),
		logger.String("side", string(msg.SignalType)))

	if err := d.journal.Record(ctx, "dispatched", msg); err != nil {
		d.logger.Warn("signal journal write failed", logger.Error(err))
	}
	return nil
}

var _ bus.MessageHandler = (*SignalDispatcher)(nil)
