package bus

import (
	"context"
	"fmt"
	"time"

	"SigFlow/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Redis is a Publisher/Subscriber backed by Redis pub/sub. It keeps the
// channel's native semantics: no persistence, no replay, messages published
// while nobody listens are dropped.
type Redis struct {
	logger *logger.Logger
	cfg    *RedisConfig
	client *redis.Client
}

// NewRedis creates a Redis bus and verifies connectivity.
func NewRedis(lgr *logger.Logger, opts ...RedisOption) (*Redis, error) {
	cfg := &RedisConfig{
		Addr:         "localhost:6379",
		ReconnectMax: 10,
		BackoffMin:   250 * time.Millisecond,
		BackoffMax:   15 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	lgr.Info("redis bus connected", logger.String("addr", cfg.Addr))
	return &Redis{logger: lgr, cfg: cfg, client: client}, nil
}

// Publish sends one payload to the topic.
func (b *Redis) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		busPublishErrors.WithLabelValues("redis", topic).Inc()
		return fmt.Errorf("redis publish: %w", err)
	}
	busPublished.WithLabelValues("redis", topic).Inc()
	return nil
}

// Subscribe blocks delivering messages to the handler until ctx is cancelled
// or the reconnect budget is spent. A handler error never ends the
// subscription; the failing payload is the handler's problem.
func (b *Redis) Subscribe(ctx context.Context, handler MessageHandler) error {
	topic := handler.Topic()
	attempts := 0

	for {
		subscribed, err := b.listen(ctx, topic, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if subscribed {
			attempts = 0
		}

		attempts++
		if b.cfg.ReconnectMax > 0 && attempts > b.cfg.ReconnectMax {
			return fmt.Errorf("redis subscribe %s: reconnect budget exhausted: %w", topic, err)
		}

		busReconnects.WithLabelValues("redis", topic).Inc()
		sleep := backoffWithJitter(b.cfg.BackoffMin, b.cfg.BackoffMax, attempts)
		b.logger.Warn("redis subscription lost, reconnecting",
			logger.String("topic", topic),
			logger.Int("attempt", attempts),
			logger.Duration("backoff_ms", sleep),
			logger.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}

// listen runs one subscription session. It reports whether the subscription
// was ever confirmed, so the caller can reset its retry budget.
func (b *Redis) listen(ctx context.Context, topic string, handler MessageHandler) (bool, error) {
	ps := b.client.Subscribe(ctx, topic)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return false, fmt.Errorf("redis subscribe confirm: %w", err)
	}
	b.logger.Info("listening", logger.String("topic", topic))

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return true, fmt.Errorf("redis subscription channel closed")
			}
			busReceived.WithLabelValues("redis", topic).Inc()
			if err := handler.Handle(ctx, []byte(m.Payload)); err != nil {
				b.logger.Error("message handler error",
					logger.String("topic", topic),
					logger.Error(err))
			}
		}
	}
}

// Close releases the Redis connection.
func (b *Redis) Close() error {
	return b.client.Close()
}

var (
	_ Publisher  = (*Redis)(nil)
	_ Subscriber = (*Redis)(nil)
)
