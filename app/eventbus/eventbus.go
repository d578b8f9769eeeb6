// Package eventbus provides the NATS JetStream event bus used for
// outbound domain events (reward grants, chest opens, notifications).
package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventBus is the narrow publishing contract the services use.
type EventBus interface {
	Publish(ctx context.Context, streamName string, msg *message.Message) error
	Subscribe(ctx context.Context, streamName string, subject string, handler func(ctx context.Context, msg *message.Message) error) error
	CreateStream(ctx context.Context, streamName string, subject string) error
	Close() error
}

// eventBus implements EventBus on top of watermill-nats and JetStream.
type eventBus struct {
	publisher      message.Publisher
	subscriber     message.Subscriber
	js             jetstream.JetStream
	natsConn       *nc.Conn
	logger         *slog.Logger
	createdStreams map[string]bool
	streamMutex    sync.Mutex
}

// NewEventBus creates and returns an EventBus with a connection to NATS JetStream.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger) (EventBus, error) {
	natsConn, err := nc.Connect(natsURL)
	if err != nil {
		logger.Error("Failed to connect to NATS", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		logger.Error("Failed to initialize JetStream", slog.Any("error", err))
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaller := &nats.NATSMarshaler{}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:       natsURL,
			Marshaler: marshaller,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		logger.Error("Failed to create Watermill publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:         natsURL,
			Unmarshaler: marshaller,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		publisher.Close()
		logger.Error("Failed to create Watermill subscriber", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	return &eventBus{
		publisher:      publisher,
		subscriber:     subscriber,
		js:             js,
		natsConn:       natsConn,
		logger:         logger,
		createdStreams: make(map[string]bool),
	}, nil
}

func (eb *eventBus) Publish(ctx context.Context, streamName string, msg *message.Message) error {
	if msg.UUID == "" {
		msg.UUID = watermill.NewUUID()
	}

	subject := msg.Metadata.Get("subject")
	if subject == "" {
		return fmt.Errorf("message does not have a subject set in metadata")
	}

	eb.logger.Debug("Publishing message",
		slog.String("stream_name", streamName),
		slog.String("subject", subject),
	)

	ack, err := eb.js.Publish(ctx, subject, msg.Payload)
	if err != nil {
		eb.logger.Error("Failed to publish message",
			slog.String("subject", subject),
			slog.String("stream_name", streamName),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to publish message to JetStream: %w", err)
	}

	eb.logger.Debug("Message published",
		slog.String("stream_name", streamName),
		slog.String("subject", subject),
		slog.Uint64("sequence", ack.Sequence),
	)

	return nil
}

func (eb *eventBus) Subscribe(ctx context.Context, streamName string, subject string, handler func(ctx context.Context, msg *message.Message) error) error {
	eb.logger.Info("Subscribing to subject", slog.String("subject", subject))

	messages, err := eb.subscriber.Subscribe(ctx, subject)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	go func() {
		for msg := range messages {
			if err := handler(ctx, msg); err != nil {
				eb.logger.Error("Handler error", slog.String("subject", subject), slog.Any("error", err))
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()

	return nil
}

func (eb *eventBus) CreateStream(ctx context.Context, streamName string, subject string) error {
	eb.streamMutex.Lock()
	defer eb.streamMutex.Unlock()

	if eb.createdStreams[streamName] {
		return nil
	}

	_, err := eb.js.Stream(ctx, streamName)
	if err != nil && err != jetstream.ErrStreamNotFound {
		return fmt.Errorf("failed to check if stream exists: %w", err)
	}

	if err == jetstream.ErrStreamNotFound {
		_, err = eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     streamName,
			Subjects: []string{subject},
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		eb.logger.Info("Stream created",
			slog.String("stream_name", streamName),
			slog.String("subject", subject),
		)
	}

	eb.createdStreams[streamName] = true
	return nil
}

func (eb *eventBus) Close() error {
	var firstErr error
	if err := eb.publisher.Close(); err != nil {
		firstErr = err
	}
	if err := eb.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	eb.natsConn.Close()
	return firstErr
}
