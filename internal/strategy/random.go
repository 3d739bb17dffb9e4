package strategy

import (
	"math/rand"
	"sync"
	"time"

	"SigFlow/internal/domain/models"
)

// Random is the stand-in strategy: with a configured probability it emits
// BUY or SELL, chosen uniformly. It exists so the rest of the pipeline can
// be built and tested before a real model replaces it.
type Random struct {
	probability float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom builds the random strategy. Probability is clamped to [0,1];
// a non-zero seed makes the sequence reproducible.
func NewRandom(probability float64, seed int64) *Random {
	if probability < 0 {
		probability = 0
	}
	if probability > 1 {
		probability = 1
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{
		probability: probability,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Name returns the configured identifier for logging.
func (r *Random) Name() string { return "Random" }

// Evaluate rolls the dice for one snapshot. Malformed snapshots (empty
// symbol, non-positive price) never signal.
func (r *Random) Evaluate(snap models.MarketSnapshot) (models.Side, bool) {
	if !snap.Valid() {
		return "", false
	}

	r.mu.Lock()
	roll := r.rng.Float64()
	flip := r.rng.Intn(2)
	r.mu.Unlock()

	if roll >= r.probability {
		return "", false
	}
	if flip == 0 {
		return models.SideBuy, true
	}
	return models.SideSell, true
}

var _ Strategy = (*Random)(nil)
