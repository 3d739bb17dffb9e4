package usecase

import (
	"context"
	"time"

	"SigFlow/internal/domain/models"
	drepo "SigFlow/internal/domain/repository"
	"SigFlow/internal/strategy"
	"SigFlow/pkg/logger"
)

// SignalEngine runs the producer side of the pipeline: one cycle per
// interval over all active accounts, publishing whatever the strategy
// decides. Cycles never overlap and failures never cross account
// boundaries — a dead directory makes an empty cycle, a dead feed or bus
// only skips the one account that hit it.
type SignalEngine struct {
	logger    *logger.Logger
	directory drepo.AccountDirectory
	market    drepo.MarketData
	strat     strategy.Strategy
	publisher drepo.SignalPublisher
	journal   drepo.SignalJournal
	metrics   drepo.Metrics

	symbol   string
	interval time.Duration
}

// NewSignalEngine wires the engine. The symbol is fixed configuration, not
// discovered per account.
func NewSignalEngine(
	lgr *logger.Logger,
	directory drepo.AccountDirectory,
	market drepo.MarketData,
	strat strategy.Strategy,
	publisher drepo.SignalPublisher,
	journal drepo.SignalJournal,
	metrics drepo.Metrics,
	symbol string,
	interval time.Duration,
) *SignalEngine {
	return &SignalEngine{
		logger:    lgr,
		directory: directory,
		market:    market,
		strat:     strat,
		publisher: publisher,
		journal:   journal,
		metrics:   metrics,
		symbol:    symbol,
		interval:  interval,
	}
}

// Run blocks executing cycles until ctx is cancelled. The cadence is fixed:
// a cycle runs, then the engine sleeps for the full interval regardless of
// how long the cycle took.
func (e *SignalEngine) Run(ctx context.Context) error {
	e.logger.Info("signal engine started",
		logger.String("strategy", e.strat.Name()),
		logger.String("symbol", e.symbol),
		logger.Duration("interval_ms", e.interval))

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		e.Cycle(ctx)
		select {
		case <-ctx.Done():
			e.logger.Info("signal engine stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Cycle runs one pass over all active accounts. It never returns an error:
// everything that can fail inside a cycle is logged and skipped.
func (e *SignalEngine) Cycle(ctx context.Context) {
	start := time.Now()

	accounts, err := e.directory.ListActive(ctx)
	if err != nil {
		// treated as zero accounts this cycle; the loop keeps its cadence
		e.metrics.RecordError("directory")
		e.logger.Error("account directory fetch failed", logger.Error(err))
		accounts = nil
	}

	if len(accounts) == 0 {
		e.logger.Debug("no active accounts this cycle")
	}

	for _, account := range accounts {
		if ctx.Err() != nil {
			return
		}
		e.evaluateAccount(ctx, account)
	}

	e.metrics.RecordCycle(len(accounts))
	e.metrics.RecordLatency("cycle_seconds", time.Since(start).Seconds())
}

// evaluateAccount fetches a snapshot, runs the strategy and publishes any
// resulting signal. Failures are contained here.
func (e *SignalEngine) evaluateAccount(ctx context.Context, account models.Account) {
	snap, err := e.market.Snapshot(ctx, e.symbol)
	if err != nil {
		e.metrics.RecordError("market_data")
		e.logger.Warn("market data fetch failed",
			logger.Int64("account_id", account.ID),
			logger.String("symbol", e.symbol),
			logger.Error(err))
		return
	}
	e.metrics.RecordLastPrice(snap.Symbol, snap.Price)

	side, ok := e.strat.Evaluate(snap)
	if !ok {
		return
	}

	msg := &models.SignalMessage{
		AccountID:   account.ID,
		AccountName: account.Name,
		Symbol:      snap.Symbol,
		SignalType:  side,
	}

	if err := e.publisher.Publish(ctx, msg); err != nil {
		e.metrics.RecordError("publish")
		e.logger.Error("signal publish failed",
			logger.Int64("account_id", account.ID),
			logger.Error(err))
		return
	}
	e.metrics.RecordSignal("published", msg.Symbol, string(msg.SignalType))
	e.logger.Info("signal published",
		logger.Int64("account_id", msg.AccountID),
		logger.String("account", msg.AccountName),
		logger.String("symbol", msg.Symbol),
		logger.String("side", string(msg.SignalType)),
		logger.Float64("price", snap.Price))

	if err := e.journal.Record(ctx, "published", msg); err != nil {
		e.logger.Warn("signal journal write failed", logger.Error(err))
	}
}
