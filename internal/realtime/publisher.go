package realtime

import (
	"context"
	"fmt"
)

// MetricsSource produces the realtime metrics payload
type MetricsSource func(ctx context.Context) (interface{}, error)

// Publisher turns a metrics source into hub messages
type Publisher struct {
	source MetricsSource
}

// NewPublisher creates a publisher over a metrics source
func NewPublisher(source MetricsSource) *Publisher {
	return &Publisher{source: source}
}

// Push builds and broadcasts one metrics frame.
// Without connected clients the source is not queried and Push returns false.
func (p *Publisher) Push(ctx context.Context, hub *Hub) (bool, error) {
	if hub.ClientCount() == 0 {
		return false, nil
	}

	data, err := p.source(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to build realtime metrics: %w", err)
	}
	if err := hub.Broadcast(NewMessage(MessageMetrics, data)); err != nil {
		return false, err
	}
	return true, nil
}

// Welcome is a WelcomeFunc sending the current metrics
func (p *Publisher) Welcome(ctx context.Context) (Message, error) {
	data, err := p.source(ctx)
	if err != nil {
		return Message{}, err
	}
	return NewMessage(MessageWelcome, data), nil
}
