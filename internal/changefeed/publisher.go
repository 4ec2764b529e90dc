package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/profile"
)

// Publisher emits change events to the changefeed topic.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    zerolog.Logger
}

// PublisherConfig holds configuration for the publisher.
type PublisherConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPublisher creates a new changefeed publisher.
func NewPublisher(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &Publisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		logger:    cfg.Logger,
	}, nil
}

// ProfileWritten publishes a profile create or update. before is nil on
// create.
func (p *Publisher) ProfileWritten(ctx context.Context, before, after *profile.Profile) error {
	return p.publish(ctx, Message{
		Kind:   KindProfileWrite,
		Before: before,
		After:  after,
	})
}

// RecommendationRemoved publishes the deletion of one recommendation entry.
func (p *Publisher) RecommendationRemoved(ctx context.Context, userID string, remaining int) error {
	return p.publish(ctx, Message{
		Kind:      KindRecommendationDelete,
		UserID:    userID,
		Remaining: remaining,
	})
}

func (p *Publisher) publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling changefeed message: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{Data: data})
	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing changefeed message: %w", err)
	}

	p.logger.Debug().
		Str("message_id", id).
		Str("kind", msg.Kind).
		Msg("published changefeed message")
	return nil
}

// Close flushes pending publishes and closes the client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
