package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"SigFlow/internal/domain/models"
	drepo "SigFlow/internal/domain/repository"
	"SigFlow/pkg/logger"

	"github.com/gorilla/websocket"
)

// WSFeed is a market data provider backed by a streaming WebSocket feed.
// A background loop caches the last tick per symbol; Snapshot serves from
// that cache and refuses to answer with stale data.
type WSFeed struct {
	logger         *logger.Logger
	url            string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	staleness      time.Duration

	mu   sync.RWMutex
	conn *websocket.Conn
	last map[string]tick
}

type tick struct {
	price float64
	at    time.Time
}

// NewWSFeed creates the feed client. Call Start before the first Snapshot.
func NewWSFeed(lgr *logger.Logger, url string, symbols []string, reconnectDelay, pingInterval, staleness time.Duration) *WSFeed {
	return &WSFeed{
		logger:         lgr,
		url:            url,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		staleness:      staleness,
		last:           make(map[string]tick),
	}
}

// Start connects, subscribes and launches the read and ping loops. The loops
// exit when ctx is cancelled; read failures reconnect after the configured
// delay.
func (f *WSFeed) Start(ctx context.Context) error {
	if err := f.connect(ctx); err != nil {
		return err
	}
	go f.pingLoop(ctx)
	go f.readLoop(ctx)
	return nil
}

func (f *WSFeed) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return fmt.Errorf("wsfeed connect: %w", err)
	}
	for _, s := range f.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s}
		if err := conn.WriteJSON(msg); err != nil {
			_ = conn.Close()
			return fmt.Errorf("wsfeed subscribe %s: %w", s, err)
		}
	}
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
	f.logger.Info("wsfeed connected", logger.String("url", f.url))
	return nil
}

type feedTick struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	T int64   `json:"t"` // ms
}

type feedMessage struct {
	Type string     `json:"type"`
	Data []feedTick `json:"data"`
}

func (f *WSFeed) readLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		f.mu.RLock()
		conn := f.conn
		f.mu.RUnlock()
		if conn == nil {
			f.reconnect(ctx)
			continue
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			f.logger.Warn("wsfeed read error", logger.Error(err))
			f.reconnect(ctx)
			continue
		}

		var m feedMessage
		if err := json.Unmarshal(b, &m); err != nil || m.Type != "trade" {
			// ignore non-trade frames
			continue
		}
		now := time.Now()
		f.mu.Lock()
		for _, d := range m.Data {
			if d.P > 0 {
				f.last[d.S] = tick{price: d.P, at: now}
			}
		}
		f.mu.Unlock()
	}
}

func (f *WSFeed) reconnect(ctx context.Context) {
	f.closeConn()
	select {
	case <-ctx.Done():
		return
	case <-time.After(f.reconnectDelay):
	}
	if err := f.connect(ctx); err != nil {
		f.logger.Warn("wsfeed reconnect failed", logger.Error(err))
	}
}

func (f *WSFeed) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(f.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.mu.RLock()
			conn := f.conn
			f.mu.RUnlock()
			if conn != nil {
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

// Snapshot returns the last cached price for the symbol, or
// ErrMarketDataUnavailable when no tick arrived within the staleness window.
func (f *WSFeed) Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.MarketSnapshot{}, err
	}

	f.mu.RLock()
	t, ok := f.last[symbol]
	f.mu.RUnlock()

	if !ok {
		return models.MarketSnapshot{}, fmt.Errorf("%w: no tick for %s", drepo.ErrMarketDataUnavailable, symbol)
	}
	if f.staleness > 0 && time.Since(t.at) > f.staleness {
		return models.MarketSnapshot{}, fmt.Errorf("%w: %s tick is stale", drepo.ErrMarketDataUnavailable, symbol)
	}
	return models.MarketSnapshot{Symbol: symbol, Price: t.price}, nil
}

func (f *WSFeed) closeConn() {
	f.mu.Lock()
	if f.conn != nil {
		_ = f.conn.Close()
		f.conn = nil
	}
	f.mu.Unlock()
}

// Close tears the connection down.
func (f *WSFeed) Close() error {
	f.closeConn()
	return nil
}

var _ drepo.MarketData = (*WSFeed)(nil)
