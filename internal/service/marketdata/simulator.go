package marketdata

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"SigFlow/internal/domain/models"
	drepo "SigFlow/internal/domain/repository"
)

// Simulator serves uniformly random prices from a configured band, rounded
// to 5 decimal places. It stands in for a real feed during development.
type Simulator struct {
	minPrice float64
	maxPrice float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a simulated market data provider.
func NewSimulator(minPrice, maxPrice float64, seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		minPrice: minPrice,
		maxPrice: maxPrice,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Snapshot returns the current simulated price for the symbol.
func (s *Simulator) Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	if symbol == "" {
		return models.MarketSnapshot{}, fmt.Errorf("%w: empty symbol", drepo.ErrMarketDataUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return models.MarketSnapshot{}, err
	}

	s.mu.Lock()
	price := s.minPrice + s.rng.Float64()*(s.maxPrice-s.minPrice)
	s.mu.Unlock()

	price = math.Round(price*1e5) / 1e5
	return models.MarketSnapshot{Symbol: symbol, Price: price}, nil
}

var _ drepo.MarketData = (*Simulator)(nil)
