package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SigFlow/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Kafka is an alternative bus backend. It rides on a durable log, so it is
// strictly stronger than the Redis backend; callers still only rely on the
// at-most-once contract.
type Kafka struct {
	logger *logger.Logger
	cfg    *KafkaConfig
	writer *kafka.Writer
}

// NewKafka creates a Kafka bus.
func NewKafka(lgr *logger.Logger, opts ...KafkaOption) (*Kafka, error) {
	cfg := &KafkaConfig{
		GroupID:      "oms",
		MaxWait:      500 * time.Millisecond,
		ReconnectMax: 10,
		BackoffMin:   250 * time.Millisecond,
		BackoffMax:   15 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}

	return &Kafka{logger: lgr, cfg: cfg, writer: writer}, nil
}

// Publish sends one payload to the topic.
func (b *Kafka) Publish(ctx context.Context, topic string, payload []byte) error {
	err := b.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		busPublishErrors.WithLabelValues("kafka", topic).Inc()
		return fmt.Errorf("kafka publish: %w", err)
	}
	busPublished.WithLabelValues("kafka", topic).Inc()
	return nil
}

// Subscribe blocks delivering messages to the handler until ctx is cancelled
// or the reconnect budget is spent.
func (b *Kafka) Subscribe(ctx context.Context, handler MessageHandler) error {
	topic := handler.Topic()
	attempts := 0

	for {
		err := b.consume(ctx, topic, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		attempts++
		if b.cfg.ReconnectMax > 0 && attempts > b.cfg.ReconnectMax {
			return fmt.Errorf("kafka subscribe %s: reconnect budget exhausted: %w", topic, err)
		}

		busReconnects.WithLabelValues("kafka", topic).Inc()
		sleep := backoffWithJitter(b.cfg.BackoffMin, b.cfg.BackoffMax, attempts)
		b.logger.Warn("kafka reader lost, reconnecting",
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

func (b *Kafka) consume(ctx context.Context, topic string, handler MessageHandler) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  b.cfg.Brokers,
		Topic:    topic,
		GroupID:  b.cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  b.cfg.MaxWait,
	})
	defer reader.Close()

	b.logger.Info("listening", logger.String("topic", topic))

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("kafka read: %w", err)
		}
		busReceived.WithLabelValues("kafka", topic).Inc()
		if err := handler.Handle(ctx, msg.Value); err != nil {
			b.logger.Error("message handler error",
				logger.String("topic", topic),
				logger.Error(err))
		}
	}
}

// Close releases the Kafka writer.
func (b *Kafka) Close() error {
	return b.writer.Close()
}

var (
	_ Publisher  = (*Kafka)(nil)
	_ Subscriber = (*Kafka)(nil)
)
