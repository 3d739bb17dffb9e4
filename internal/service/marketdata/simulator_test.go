package marketdata

import (
	"context"
	"errors"
	"math"
	"testing"

	drepo "SigFlow/internal/domain/repository"
)

func TestSimulatorPriceBand(t *testing.T) {
	s := NewSimulator(1.05, 1.15, 1)
	for i := 0; i < 1000; i++ {
		snap, err := s.Snapshot(context.Background(), "EURUSD")
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if snap.Symbol != "EURUSD" {
			t.Fatalf("symbol = %q, want EURUSD", snap.Symbol)
		}
		if snap.Price < 1.05 || snap.Price > 1.15 {
			t.Fatalf("price %v outside [1.05, 1.15]", snap.Price)
		}
	}
}

func TestSimulatorRoundsToFiveDecimals(t *testing.T) {
	s := NewSimulator(1.05, 1.15, 1)
	for i := 0; i < 100; i++ {
		snap, err := s.Snapshot(context.Background(), "EURUSD")
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		scaled := snap.Price * 1e5
		if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			t.Fatalf("price %v not rounded to 5 decimal places", snap.Price)
		}
	}
}

func TestSimulatorEmptySymbol(t *testing.T) {
	s := NewSimulator(1.05, 1.15, 1)
	_, err := s.Snapshot(context.Background(), "")
	if !errors.Is(err, drepo.ErrMarketDataUnavailable) {
		t.Errorf("error = %v, want ErrMarketDataUnavailable", err)
	}
}

func TestSimulatorHonoursCancelledContext(t *testing.T) {
	s := NewSimulator(1.05, 1.15, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Snapshot(ctx, "EURUSD"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSimulatorSeededDeterminism(t *testing.T) {
	a := NewSimulator(1.05, 1.15, 7)
	b := NewSimulator(1.05, 1.15, 7)
	for i := 0; i < 50; i++ {
		sa, err := a.Snapshot(context.Background(), "EURUSD")
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		sb, err := b.Snapshot(context.Background(), "EURUSD")
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if sa.Price != sb.Price {
			t.Fatalf("diverged at draw %d: %v vs %v", i, sa.Price, sb.Price)
		}
	}
}
