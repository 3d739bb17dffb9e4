package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"SigFlow/internal/domain/models"
	drepo "SigFlow/internal/domain/repository"
	"SigFlow/internal/strategy"
	"SigFlow/pkg/logger"
)

type fakeDirectory struct {
	accounts []models.Account
	err      error
	calls    int
}

func (f *fakeDirectory) ListActive(ctx context.Context) ([]models.Account, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts, nil
}

func (f *fakeDirectory) Close() error { return nil }

type fakeMarket struct {
	price   float64
	failFor map[int]bool // fail the n-th call (1-based)
	calls   int
}

func (f *fakeMarket) Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	f.calls++
	if f.failFor[f.calls] {
		return models.MarketSnapshot{}, drepo.ErrMarketDataUnavailable
	}
	return models.MarketSnapshot{Symbol: symbol, Price: f.price}, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []models.SignalMessage
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, msg *models.SignalMessage) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.published = append(f.published, *msg)
	f.mu.Unlock()
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) messages() []models.SignalMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.SignalMessage, len(f.published))
	copy(out, f.published)
	return out
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []string
	err     error
}

func (f *fakeJournal) Record(ctx context.Context, stage string, msg *models.SignalMessage) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.entries = append(f.entries, stage)
	f.mu.Unlock()
	return nil
}

func (f *fakeJournal) Close() error { return nil }

type fakeMetrics struct {
	mu     sync.Mutex
	cycles []int
	errors map[string]int
}

func (f *fakeMetrics) RecordCycle(accounts int) {
	f.mu.Lock()
	f.cycles = append(f.cycles, accounts)
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordSignal(stage, symbol, side string) {}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	if f.errors == nil {
		f.errors = map[string]int{}
	}
	f.errors[kind]++
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordLastPrice(symbol string, price float64) {}
func (f *fakeMetrics) RecordLatency(op string, seconds float64)     {}

func (f *fakeMetrics) errorCount(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[kind]
}

// alwaysSide signals the same side on every valid snapshot.
type alwaysSide struct{ side models.Side }

func (s alwaysSide) Evaluate(snap models.MarketSnapshot) (models.Side, bool) {
	if !snap.Valid() {
		return "", false
	}
	return s.side, true
}

func (s alwaysSide) Name() string { return "AlwaysSide" }

// neverSignal stays flat no matter what.
type neverSignal struct{}

func (neverSignal) Evaluate(snap models.MarketSnapshot) (models.Side, bool) { return "", false }
func (neverSignal) Name() string                                            { return "Never" }

func newTestEngine(dir drepo.AccountDirectory, market drepo.MarketData, strat strategy.Strategy,
	pub drepo.SignalPublisher, journal drepo.SignalJournal, m drepo.Metrics) *SignalEngine {
	return NewSignalEngine(logger.Nop(), dir, market, strat, pub, journal, m, "EURUSD", 10*time.Millisecond)
}

func TestCyclePublishesForEveryActiveAccount(t *testing.T) {
	dir := &fakeDirectory{accounts: []models.Account{
		{ID: 1, Name: "Acct-A", Active: true},
		{ID: 2, Name: "Acct-B", Active: true},
		{ID: 3, Name: "Acct-C", Active: true},
	}}
	pub := &fakePublisher{}
	journal := &fakeJournal{}
	metrics := &fakeMetrics{}
	engine := newTestEngine(dir, &fakeMarket{price: 1.1}, alwaysSide{models.SideBuy}, pub, journal, metrics)

	engine.Cycle(context.Background())

	msgs := pub.messages()
	if len(msgs) != 3 {
		t.Fatalf("published %d messages, want 3", len(msgs))
	}
	want := models.SignalMessage{AccountID: 1, AccountName: "Acct-A", Symbol: "EURUSD", SignalType: models.SideBuy}
	if msgs[0] != want {
		t.Errorf("first message = %+v, want %+v", msgs[0], want)
	}
	for i, id := range []int64{1, 2, 3} {
		if msgs[i].AccountID != id {
			t.Errorf("message %d for account %d, want %d (directory order)", i, msgs[i].AccountID, id)
		}
	}
	if len(journal.entries) != 3 {
		t.Errorf("journal recorded %d entries, want 3", len(journal.entries))
	}
}

func TestCycleWithNoAccountsPublishesNothing(t *testing.T) {
	dir := &fakeDirectory{}
	pub := &fakePublisher{}
	metrics := &fakeMetrics{}
	engine := newTestEngine(dir, &fakeMarket{price: 1.1}, alwaysSide{models.SideBuy}, pub, &fakeJournal{}, metrics)

	engine.Cycle(context.Background())

	if got := pub.messages(); len(got) != 0 {
		t.Errorf("published %d messages with no accounts", len(got))
	}
	if len(metrics.cycles) != 1 || metrics.cycles[0] != 0 {
		t.Errorf("cycle metrics = %v, want one zero-account cycle", metrics.cycles)
	}
}

func TestCycleSurvivesDirectoryOutage(t *testing.T) {
	dir := &fakeDirectory{err: drepo.ErrDirectoryUnavailable}
	pub := &fakePublisher{}
	metrics := &fakeMetrics{}
	engine := newTestEngine(dir, &fakeMarket{price: 1.1}, alwaysSide{models.SideBuy}, pub, &fakeJournal{}, metrics)

	engine.Cycle(context.Background())

	if got := pub.messages(); len(got) != 0 {
		t.Errorf("published %d messages during directory outage", len(got))
	}
	if metrics.errorCount("directory") != 1 {
		t.Errorf("directory error count = %d, want 1", metrics.errorCount("directory"))
	}
	if len(metrics.cycles) != 1 || metrics.cycles[0] != 0 {
		t.Errorf("outage cycle should complete as a zero-account cycle, got %v", metrics.cycles)
	}
}

func TestCycleIsolatesMarketDataFailure(t *testing.T) {
	dir := &fakeDirectory{accounts: []models.Account{
		{ID: 1, Name: "Acct-A", Active: true},
		{ID: 2, Name: "Acct-B", Active: true},
		{ID: 3, Name: "Acct-C", Active: true},
	}}
	// second account's snapshot fails, siblings still publish
	market := &fakeMarket{price: 1.1, failFor: map[int]bool{2: true}}
	pub := &fakePublisher{}
	metrics := &fakeMetrics{}
	engine := newTestEngine(dir, market, alwaysSide{models.SideSell}, pub, &fakeJournal{}, metrics)

	engine.Cycle(context.Background())

	msgs := pub.messages()
	if len(msgs) != 2 {
		t.Fatalf("published %d messages, want 2", len(msgs))
	}
	if msgs[0].AccountID != 1 || msgs[1].AccountID != 3 {
		t.Errorf("published accounts %d,%d, want 1,3", msgs[0].AccountID, msgs[1].AccountID)
	}
	if metrics.errorCount("market_data") != 1 {
		t.Errorf("market_data error count = %d, want 1", metrics.errorCount("market_data"))
	}
}

func TestCycleContinuesPastPublishFailure(t *testing.T) {
	dir := &fakeDirectory{accounts: []models.Account{{ID: 1, Name: "Acct-A", Active: true}}}
	pub := &fakePublisher{err: errors.New("bus down")}
	metrics := &fakeMetrics{}
	journal := &fakeJournal{}
	engine := newTestEngine(dir, &fakeMarket{price: 1.1}, alwaysSide{models.SideBuy}, pub, journal, metrics)

	engine.Cycle(context.Background())

	if metrics.errorCount("publish") != 1 {
		t.Errorf("publish error count = %d, want 1", metrics.errorCount("publish"))
	}
	if len(journal.entries) != 0 {
		t.Errorf("journal recorded %d entries for a failed publish", len(journal.entries))
	}
}

func TestCycleNoSignalNoPublish(t *testing.T) {
	dir := &fakeDirectory{accounts: []models.Account{{ID: 1, Name: "Acct-A", Active: true}}}
	pub := &fakePublisher{}
	engine := newTestEngine(dir, &fakeMarket{price: 1.1}, neverSignal{}, pub, &fakeJournal{}, &fakeMetrics{})

	engine.Cycle(context.Background())

	if got := pub.messages(); len(got) != 0 {
		t.Errorf("published %d messages when strategy stayed flat", len(got))
	}
}

func TestCycleJournalFailureDoesNotBlockPublishing(t *testing.T) {
	dir := &fakeDirectory{accounts: []models.Account{
		{ID: 1, Name: "Acct-A", Active: true},
		{ID: 2, Name: "Acct-B", Active: true},
	}}
	pub := &fakePublisher{}
	journal := &fakeJournal{err: errors.New("clickhouse down")}
	engine := newTestEngine(dir, &fakeMarket{price: 1.1}, alwaysSide{models.SideBuy}, pub, journal, &fakeMetrics{})

	engine.Cycle(context.Background())

	if got := pub.messages(); len(got) != 2 {
		t.Errorf("published %d messages, want 2 despite journal failure", len(got))
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	dir := &fakeDirectory{}
	engine := newTestEngine(dir, &fakeMarket{price: 1.1}, neverSignal{}, &fakePublisher{}, &fakeJournal{}, &fakeMetrics{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if dir.calls == 0 {
		t.Error("Run never executed a cycle")
	}
}
