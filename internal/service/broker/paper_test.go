package broker

import (
	"context"
	"errors"
	"testing"

	"SigFlow/internal/domain/models"
	"SigFlow/pkg/logger"
)

func TestPaperRecordsFills(t *testing.T) {
	p := NewPaper(logger.Nop())
	ctx := context.Background()

	if err := p.PlaceOrder(ctx, 1, "EURUSD", models.SideBuy); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if err := p.PlaceOrder(ctx, 2, "EURUSD", models.SideSell); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	fills := p.Fills()
	if len(fills) != 2 {
		t.Fatalf("got %d fills, want 2", len(fills))
	}
	if fills[0].AccountID != 1 || fills[0].Side != models.SideBuy {
		t.Errorf("first fill = %+v", fills[0])
	}
	if fills[1].AccountID != 2 || fills[1].Side != models.SideSell {
		t.Errorf("second fill = %+v", fills[1])
	}
	if fills[0].At.IsZero() {
		t.Error("fill timestamp not set")
	}
}

func TestPaperRejectsCancelledContext(t *testing.T) {
	p := NewPaper(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.PlaceOrder(ctx, 1, "EURUSD", models.SideBuy); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(p.Fills()) != 0 {
		t.Error("fill recorded for cancelled order")
	}
}

func TestPaperFillsReturnsCopy(t *testing.T) {
	p := NewPaper(logger.Nop())
	if err := p.PlaceOrder(context.Background(), 1, "EURUSD", models.SideBuy); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	fills := p.Fills()
	fills[0].AccountID = 999
	if p.Fills()[0].AccountID != 1 {
		t.Error("Fills exposed internal tape")
	}
}
