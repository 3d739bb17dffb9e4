package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"SigFlow/internal/domain/models"
	"SigFlow/pkg/logger"
)

type placedOrder struct {
	AccountID int64
	Symbol    string
	Side      models.Side
}

type fakeOrderPlacer struct {
	mu     sync.Mutex
	orders []placedOrder
	err    error
}

func (f *fakeOrderPlacer) PlaceOrder(ctx context.Context, accountID int64, symbol string, side models.Side) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.orders = append(f.orders, placedOrder{accountID, symbol, side})
	f.mu.Unlock()
	return nil
}

func newTestDispatcher(orders *fakeOrderPlacer, journal *fakeJournal, m *fakeMetrics) *SignalDispatcher {
	return NewSignalDispatcher(logger.Nop(), "trading_signals", orders, journal, m)
}

func TestDispatcherTopic(t *testing.T) {
	d := newTestDispatcher(&fakeOrderPlacer{}, &fakeJournal{}, &fakeMetrics{})
	if got := d.Topic(); got != "trading_signals" {
		t.Errorf("Topic() = %q, want trading_signals", got)
	}
}

func TestDispatcherPlacesOrderForValidPayload(t *testing.T) {
	orders := &fakeOrderPlacer{}
	journal := &fakeJournal{}
	d := newTestDispatcher(orders, journal, &fakeMetrics{})

	payload := []byte(`{"account_id":5,"account_name":"Demo","symbol":"EURUSD","signal_type":"BUY"}`)
	if err := d.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if len(orders.orders) != 1 {
		t.Fatalf("placed %d orders, want 1", len(orders.orders))
	}
	want := placedOrder{AccountID: 5, Symbol: "EURUSD", Side: models.SideBuy}
	if orders.orders[0] != want {
		t.Errorf("order = %+v, want %+v", orders.orders[0], want)
	}
	if len(journal.entries) != 1 || journal.entries[0] != "dispatched" {
		t.Errorf("journal entries = %v, want one dispatched entry", journal.entries)
	}
}

func TestDispatcherDiscardsPoisonPayloads(t *testing.T) {
	orders := &fakeOrderPlacer{}
	metrics := &fakeMetrics{}
	d := newTestDispatcher(orders, &fakeJournal{}, metrics)

	poison := [][]byte{
		[]byte("not-json"),
		[]byte("{}"),
		[]byte(`{"account_id":0,"account_name":"a","symbol":"EURUSD","signal_type":"BUY"}`),
		[]byte(`{"account_id":1,"account_name":"a","symbol":"EURUSD","signal_type":"HOLD"}`),
	}
	for _, p := range poison {
		if err := d.Handle(context.Background(), p); err == nil {
			t.Errorf("Handle accepted poison payload %q", p)
		}
	}
	if len(orders.orders) != 0 {
		t.Fatalf("placed %d orders from poison payloads", len(orders.orders))
	}
	if metrics.errorCount("decode") != len(poison) {
		t.Errorf("decode error count = %d, want %d", metrics.errorCount("decode"), len(poison))
	}

	// a valid payload after poison still dispatches
	valid := []byte(`{"account_id":9,"account_name":"Demo","symbol":"EURUSD","signal_type":"SELL"}`)
	if err := d.Handle(context.Background(), valid); err != nil {
		t.Fatalf("Handle failed after poison: %v", err)
	}
	if len(orders.orders) != 1 {
		t.Errorf("placed %d orders after poison, want 1", len(orders.orders))
	}
}

func TestDispatcherReportsOrderFailure(t *testing.T) {
	orders := &fakeOrderPlacer{err: errors.New("gateway rejected")}
	journal := &fakeJournal{}
	metrics := &fakeMetrics{}
	d := newTestDispatcher(orders, journal, metrics)

	payload := []byte(`{"account_id":5,"account_name":"Demo","symbol":"EURUSD","signal_type":"BUY"}`)
	if err := d.Handle(context.Background(), payload); err == nil {
		t.Fatal("Handle swallowed order gateway error")
	}
	if metrics.errorCount("place_order") != 1 {
		t.Errorf("place_order error count = %d, want 1", metrics.errorCount("place_order"))
	}
	if len(journal.entries) != 0 {
		t.Errorf("journal recorded %d entries for a failed order", len(journal.entries))
	}
}

func TestDispatcherJournalFailureIsBestEffort(t *testing.T) {
	orders := &fakeOrderPlacer{}
	journal := &fakeJournal{err: errors.New("clickhouse down")}
	d := newTestDispatcher(orders, journal, &fakeMetrics{})

	payload := []byte(`{"account_id":5,"account_name":"Demo","symbol":"EURUSD","signal_type":"BUY"}`)
	if err := d.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle failed on journal error: %v", err)
	}
	if len(orders.orders) != 1 {
		t.Errorf("placed %d orders, want 1", len(orders.orders))
	}
}
