package bus

import (
	"context"
	"math/rand"
	"time"
)

// MessageHandler handles payloads delivered on a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(ctx context.Context, payload []byte) error
}

// Publisher pushes raw payloads onto a topic. Delivery is at-most-once:
// nothing is queued for subscribers that are not attached at publish time.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}

// Subscriber delivers every payload on the handler's topic until ctx is
// cancelled. Handler errors are logged and the subscription continues; only
// exhausted reconnect attempts or cancellation end the loop.
type Subscriber interface {
	Subscribe(ctx context.Context, handler MessageHandler) error
	Close() error
}

// backoffWithJitter returns an exponential backoff delay for the given
// attempt, capped at max, with up to 50% jitter subtracted.
func backoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	exp := min * time.Duration(1<<uint(attempt-1))
	if exp > max || exp <= 0 {
		exp = max
	}
	jitter := time.Duration(rand.Int63n(int64(exp) / 2))
	return exp - jitter
}
