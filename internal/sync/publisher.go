package sync

import (
	"context"
	"log/slog"

	"github.com/driftcrew/wildsea-api/internal/errors"
	redisclient "github.com/driftcrew/wildsea-api/internal/redis"
)

// Publisher broadcasts change events after successful writes.
type Publisher struct {
	client redisclient.Client
}

// PublisherConfig contains configuration for a Publisher.
type PublisherConfig struct {
	Client redisclient.Client
}

// Validate validates the PublisherConfig.
func (cfg *PublisherConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewPublisher creates a Publisher.
func NewPublisher(cfg *PublisherConfig) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Publisher{client: cfg.Client}, nil
}

// Publish sends a change event to every subscriber on the session's
// channel for the event's kind. A publish failure is logged and
// returned but must never be treated as fatal by callers: the write
// already landed, and subscribers' polling fallback will pick it up.
func (p *Publisher) Publish(ctx context.Context, sessionID string, event Event) error {
	data, err := event.marshal()
	if err != nil {
		return errors.Wrap(err, "failed to marshal event")
	}

	channel := Channel(event.Kind, sessionID)
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to publish change event",
			"channel", channel,
			"entity_id", event.EntityID,
			"error", err.Error())
		return errors.Wrap(err, "failed to publish change event")
	}

	return nil
}
