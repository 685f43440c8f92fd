package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// DocumentsTopic carries every document change, whatever the collection.
const DocumentsTopic = "learnhub.docs"

type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// ChangeEvent announces that a document was written. It carries no payload:
// listeners re-read the store to build their snapshot.
type ChangeEvent struct {
	ID         string     `json:"id"`
	Collection string     `json:"collection"`
	DocID      string     `json:"doc_id"`
	Kind       ChangeKind `json:"kind"`
	Source     string     `json:"source"`
	Timestamp  time.Time  `json:"timestamp"`
}

// NewChangeEvent stamps an event with a fresh ID and the current time
func NewChangeEvent(collection, docID string, kind ChangeKind) ChangeEvent {
	return ChangeEvent{
		ID:         uuid.New().String(),
		Collection: collection,
		DocID:      docID,
		Kind:       kind,
		Source:     "learnhub-service",
		Timestamp:  time.Now().UTC(),
	}
}

// Feed is the change stream behind document subscriptions
type Feed interface {
	Publish(ctx context.Context, event ChangeEvent) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
	Close() error
}

// Config selects the feed backend. Kafka is used when brokers are set.
type Config struct {
	Brokers       []string
	ConsumerGroup string
	Topic         string
}

type watermillFeed struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	shared     bool // publisher and subscriber are the same pub/sub
	topic      string
	logger     *slog.Logger
}

// NewFeed creates a Kafka backed feed, or an in-process one when no brokers are configured
func NewFeed(cfg Config, logger *slog.Logger) (Feed, error) {
	if len(cfg.Brokers) == 0 {
		return NewInMemoryFeed(logger), nil
	}

	wmLogger := watermill.NewSlogLogger(logger)

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.Brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               cfg.Brokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
		ConsumerGroup:         cfg.ConsumerGroup,
	}, wmLogger)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("failed to create kafka subscriber: %w", err)
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DocumentsTopic
	}

	logger.Info("Kafka change feed initialized", "brokers", cfg.Brokers, "topic", topic)

	return &watermillFeed{
		publisher:  publisher,
		subscriber: subscriber,
		topic:      topic,
		logger:     logger,
	}, nil
}

// NewInMemoryFeed creates a feed on a watermill Go channel, for single-instance deployments and tests
func NewInMemoryFeed(logger *slog.Logger) Feed {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, watermill.NewSlogLogger(logger))

	return &watermillFeed{
		publisher:  pubSub,
		subscriber: pubSub,
		shared:     true,
		topic:      DocumentsTopic,
		logger:     logger,
	}
}

func (f *watermillFeed) Publish(ctx context.Context, event ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("collection", event.Collection)
	msg.Metadata.Set("kind", string(event.Kind))

	if err := f.publisher.Publish(f.topic, msg); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

func (f *watermillFeed) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	messages, err := f.subscriber.Subscribe(ctx, f.topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", f.topic, err)
	}

	out := make(chan ChangeEvent, 64)
	go func() {
		defer close(out)
		for msg := range messages {
			var event ChangeEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				f.logger.Warn("Dropping malformed change event", "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			msg.Ack()

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (f *watermillFeed) Close() error {
	if err := f.publisher.Close(); err != nil {
		return fmt.Errorf("failed to close publisher: %w", err)
	}
	if !f.shared {
		if err := f.subscriber.Close(); err != nil {
			return fmt.Errorf("failed to close subscriber: %w", err)
		}
	}
	return nil
}
