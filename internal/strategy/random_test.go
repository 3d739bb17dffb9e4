package strategy

import (
	"testing"

	"SigFlow/internal/domain/models"
)

func validSnap() models.MarketSnapshot {
	return models.MarketSnapshot{Symbol: "EURUSD", Price: 1.1}
}

func TestRandomOutputDomain(t *testing.T) {
	s := NewRandom(0.5, 1)
	for i := 0; i < 1000; i++ {
		side, ok := s.Evaluate(validSnap())
		if !ok {
			if side != "" {
				t.Fatalf("no-signal result carried side %q", side)
			}
			continue
		}
		if side != models.SideBuy && side != models.SideSell {
			t.Fatalf("unexpected side %q", side)
		}
	}
}

func TestRandomInvalidSnapshotNeverSignals(t *testing.T) {
	s := NewRandom(1.0, 1)
	snaps := []models.MarketSnapshot{
		{},
		{Symbol: "EURUSD"},
		{Price: 1.1},
		{Symbol: "EURUSD", Price: -0.5},
	}
	for _, snap := range snaps {
		if _, ok := s.Evaluate(snap); ok {
			t.Errorf("signal emitted for invalid snapshot %+v", snap)
		}
	}
}

func TestRandomProbabilityOne(t *testing.T) {
	s := NewRandom(1.0, 1)
	for i := 0; i < 100; i++ {
		if _, ok := s.Evaluate(validSnap()); !ok {
			t.Fatal("probability 1 produced no signal")
		}
	}
}

func TestRandomProbabilityZero(t *testing.T) {
	s := NewRandom(0, 1)
	for i := 0; i < 100; i++ {
		if side, ok := s.Evaluate(validSnap()); ok {
			t.Fatalf("probability 0 produced signal %q", side)
		}
	}
}

func TestRandomProbabilityClamped(t *testing.T) {
	if _, ok := NewRandom(-3, 1).Evaluate(validSnap()); ok {
		t.Error("negative probability should clamp to 0 and never signal")
	}
	if _, ok := NewRandom(7, 1).Evaluate(validSnap()); !ok {
		t.Error("probability above 1 should clamp to 1 and always signal")
	}
}

func TestRandomSeededDeterminism(t *testing.T) {
	a := NewRandom(0.5, 99)
	b := NewRandom(0.5, 99)
	for i := 0; i < 200; i++ {
		sideA, okA := a.Evaluate(validSnap())
		sideB, okB := b.Evaluate(validSnap())
		if okA != okB || sideA != sideB {
			t.Fatalf("diverged at draw %d: (%q,%v) vs (%q,%v)", i, sideA, okA, sideB, okB)
		}
	}
}

func TestBuildDefaultsToRandom(t *testing.T) {
	for _, mode := range []string{"", "random", "Random", " RANDOM ", "unknown"} {
		s := Build(mode, Params{Probability: 0.1, Seed: 1})
		if s == nil {
			t.Fatalf("Build(%q) returned nil", mode)
		}
		if s.Name() != "Random" {
			t.Errorf("Build(%q).Name() = %q, want Random", mode, s.Name())
		}
	}
}
