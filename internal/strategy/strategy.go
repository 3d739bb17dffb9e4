package strategy

import (
	"strings"

	"SigFlow/internal/domain/models"
)

// Strategy maps a market snapshot to an optional directional signal.
// Implementations must be side-effect free: a snapshot either yields a
// side or it does not, and malformed input yields nothing rather than an
// error, so one account's bad data never halts a cycle.
type Strategy interface {
	Evaluate(snap models.MarketSnapshot) (models.Side, bool)
	Name() string
}

// Params expresses tunable knobs required by strategy constructors.
type Params struct {
	Probability float64
	Seed        int64 // 0 means time-seeded
}

// Build returns a strategy implementation matching the configured mode.
func Build(mode string, params Params) Strategy {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "random":
		return NewRandom(params.Probability, params.Seed)
	default:
		return NewRandom(params.Probability, params.Seed)
	}
}
