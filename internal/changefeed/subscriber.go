package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/trigger"
)

// Subscriber consumes change events and feeds them to the trigger handler.
type Subscriber struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	triggers         *trigger.Handler
	logger           zerolog.Logger
}

// SubscriberConfig holds configuration for the subscriber.
type SubscriberConfig struct {
	ProjectID        string
	SubscriptionName string
	Triggers         *trigger.Handler
	Logger           zerolog.Logger
}

// NewSubscriber creates a new changefeed subscriber.
func NewSubscriber(ctx context.Context, cfg SubscriberConfig) (*Subscriber, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &Subscriber{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		triggers:         cfg.Triggers,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing change events. It blocks until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	s.logger.Info().
		Str("subscription", s.subscriptionName).
		Msg("starting changefeed subscriber")

	return s.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (s *Subscriber) Close() error {
	return s.client.Close()
}

func (s *Subscriber) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := s.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received changefeed message")

	var event Message
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch event.Kind {
	case KindProfileWrite:
		err = s.triggers.ProfileWritten(ctx, event.Before, event.After)
	case KindRecommendationDelete:
		err = s.triggers.RecommendationRemoved(ctx, event.UserID)
	default:
		logger.Warn().Str("kind", event.Kind).Msg("unknown event kind")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("event handling failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("kind", event.Kind).
		Dur("duration", time.Since(startTime)).
		Msg("event handled")

	msg.Ack()
}
