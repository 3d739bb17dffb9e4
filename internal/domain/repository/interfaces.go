package repository

import (
	"context"
	"errors"

	"SigFlow/internal/domain/models"
)

// ErrDirectoryUnavailable is returned when the account store cannot be reached.
var ErrDirectoryUnavailable = errors.New("account directory unavailable")

// ErrMarketDataUnavailable is returned when no usable price exists for a symbol.
var ErrMarketDataUnavailable = errors.New("market data unavailable")

// AccountDirectory lists the accounts the engine should evaluate. The result
// order is the order accounts are processed in within a cycle. Rows may change
// between cycles; callers never cache across cycles.
type AccountDirectory interface {
	ListActive(ctx context.Context) ([]models.Account, error)
	Close() error
}

// MarketData provides the current price for a symbol.
type MarketData interface {
	Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error)
}

// SignalPublisher pushes signal messages onto the bus topic.
type SignalPublisher interface {
	Publish(ctx context.Context, msg *models.SignalMessage) error
	Close() error
}

// OrderPlacer hands a decoded signal to the broker-facing gateway.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, accountID int64, symbol string, side models.Side) error
}

// SignalJournal records signals for audit. Writes are best-effort and must
// never influence delivery or dispatch.
type SignalJournal interface {
	Record(ctx context.Context, stage string, msg *models.SignalMessage) error
	Close() error
}

type Metrics interface {
	RecordCycle(accounts int)
	RecordSignal(stage, symbol, side string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
