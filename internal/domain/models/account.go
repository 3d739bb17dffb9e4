package models

// Account is a trading account row owned by the account directory.
// The engine only reads id/name/active; broker credentials are managed
// elsewhere and never cross the bus.
type Account struct {
	ID            int64
	Name          string
	Broker        string
	AccountNumber string
	Balance       float64
	Active        bool
}

// MarketSnapshot is a point-in-time price observation for one symbol.
// It lives for a single evaluation pass and is never stored.
type MarketSnapshot struct {
	Symbol string
	Price  float64
}

// Valid reports whether the snapshot can be fed to a strategy.
func (s MarketSnapshot) Valid() bool {
	return s.Symbol != "" && s.Price > 0
}
