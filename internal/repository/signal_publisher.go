package repository

import (
	"context"
	"fmt"

	"SigFlow/internal/domain/models"
	drepo "SigFlow/internal/domain/repository"
	"SigFlow/pkg/bus"
)

// BusSignalPublisher publishes signal messages onto the configured bus topic.
type BusSignalPublisher struct {
	pub   bus.Publisher
	topic string
}

func NewBusSignalPublisher(pub bus.Publisher, topic string) *BusSignalPublisher {
	return &BusSignalPublisher{pub: pub, topic: topic}
}

func (p *BusSignalPublisher) Publish(ctx context.Context, msg *models.SignalMessage) error {
	b, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode signal: %w", err)
	}
	if err := p.pub.Publish(ctx, p.topic, b); err != nil {
		return fmt.Errorf("publish signal: %w", err)
	}
	return nil
}

func (p *BusSignalPublisher) Close() error {
	return p.pub.Close()
}

var _ drepo.SignalPublisher = (*BusSignalPublisher)(nil)
