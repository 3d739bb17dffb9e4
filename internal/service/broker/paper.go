package broker

import (
	"context"
	"sync"
	"time"

	"SigFlow/internal/domain/models"
	drepo "SigFlow/internal/domain/repository"
	"SigFlow/pkg/logger"
)

// Fill is one simulated order acknowledgment.
type Fill struct {
	AccountID int64
	Symbol    string
	Side      models.Side
	At        time.Time
}

// Paper is the default order-placement gateway: it acknowledges every order
// and keeps an in-memory tape. Real broker gateways implement the same
// OrderPlacer contract.
type Paper struct {
	logger *logger.Logger

	mu    sync.Mutex
	fills []Fill
}

func NewPaper(lgr *logger.Logger) *Paper {
	return &Paper{logger: lgr}
}

// PlaceOrder records and acknowledges the order.
func (p *Paper) PlaceOrder(ctx context.Context, accountID int64, symbol string, side models.Side) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := Fill{AccountID: accountID, Symbol: symbol, Side: side, At: time.Now()}
	p.mu.Lock()
	p.fills = append(p.fills, f)
	p.mu.Unlock()

	p.logger.Info("paper order placed",
		logger.Int64("account_id", accountID),
		logger.String("symbol", symbol),
		logger.String("side", string(side)))
	return nil
}

// Fills returns a copy of the tape.
func (p *Paper) Fills() []Fill {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Fill, len(p.fills))
	copy(out, p.fills)
	return out
}

var _ drepo.OrderPlacer = (*Paper)(nil)
