package usecase

import (
	"context"
	"testing"

	"SigFlow/internal/domain/models"
	"SigFlow/pkg/logger"
)

// wirePublisher encodes each message and feeds it straight into the
// dispatcher, standing in for the bus.
type wirePublisher struct {
	dispatcher *SignalDispatcher
	t          *testing.T
}

func (w *wirePublisher) Publish(ctx context.Context, msg *models.SignalMessage) error {
	b, err := msg.Encode()
	if err != nil {
		return err
	}
	if err := w.dispatcher.Handle(ctx, b); err != nil {
		w.t.Errorf("dispatcher rejected engine payload: %v", err)
	}
	return nil
}

func (w *wirePublisher) Close() error { return nil }

func TestPipelineAlwaysBuyPlacesExactlyOneOrder(t *testing.T) {
	orders := &fakeOrderPlacer{}
	dispatcher := NewSignalDispatcher(logger.Nop(), "trading_signals", orders, &fakeJournal{}, &fakeMetrics{})

	dir := &fakeDirectory{accounts: []models.Account{{ID: 1, Name: "Acct-A", Active: true}}}
	pub := &wirePublisher{dispatcher: dispatcher, t: t}
	engine := newTestEngine(dir, &fakeMarket{price: 1.1}, alwaysSide{models.SideBuy}, pub, &fakeJournal{}, &fakeMetrics{})

	engine.Cycle(context.Background())

	if len(orders.orders) != 1 {
		t.Fatalf("placed %d orders, want exactly 1", len(orders.orders))
	}
	want := placedOrder{AccountID: 1, Symbol: "EURUSD", Side: models.SideBuy}
	if orders.orders[0] != want {
		t.Errorf("order = %+v, want %+v", orders.orders[0], want)
	}
}

func TestPipelineAlwaysAbsentPlacesNoOrders(t *testing.T) {
	orders := &fakeOrderPlacer{}
	dispatcher := NewSignalDispatcher(logger.Nop(), "trading_signals", orders, &fakeJournal{}, &fakeMetrics{})

	dir := &fakeDirectory{accounts: []models.Account{{ID: 1, Name: "Acct-A", Active: true}}}
	pub := &wirePublisher{dispatcher: dispatcher, t: t}
	engine := newTestEngine(dir, &fakeMarket{price: 1.1}, neverSignal{}, pub, &fakeJournal{}, &fakeMetrics{})

	engine.Cycle(context.Background())

	if len(orders.orders) != 0 {
		t.Fatalf("placed %d orders, want 0", len(orders.orders))
	}
}
