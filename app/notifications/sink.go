// Package notifications delivers user-facing notifications over the event
// bus. Delivery is fire-and-forget: a failed notification is logged and
// dropped, never surfaced to the gameplay action that triggered it.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Amberfall-Games/emberquest/app/eventbus"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

// Sink is the outbound notification contract consumed by services.
type Sink interface {
	// Notify enqueues one notification. Failures must not propagate.
	Notify(ctx context.Context, userID sharedtypes.UserID, kind, title, body string)
}

// Payload is the wire shape published on the notification subject.
type Payload struct {
	UserID sharedtypes.UserID `json:"user_id"`
	Kind   string             `json:"kind"`
	Title  string             `json:"title"`
	Body   string             `json:"body"`
}

type busSink struct {
	bus    eventbus.EventBus
	logger *slog.Logger
}

// NewBusSink returns a Sink that publishes onto the notification stream.
func NewBusSink(bus eventbus.EventBus, logger *slog.Logger) Sink {
	return &busSink{bus: bus, logger: logger}
}

func (s *busSink) Notify(ctx context.Context, userID sharedtypes.UserID, kind, title, body string) {
	payload, err := json.Marshal(Payload{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal notification",
			slog.String("user_id", string(userID)),
			slog.String("kind", kind),
			slog.Any("error", err),
		)
		return
	}

	msg := message.NewMessage("", payload)
	msg.Metadata.Set("subject", eventbus.NotificationSubject)

	if err := s.bus.Publish(ctx, eventbus.NotificationStream, msg); err != nil {
		s.logger.WarnContext(ctx, "Notification delivery failed",
			slog.String("user_id", string(userID)),
			slog.String("kind", kind),
			slog.Any("error", err),
		)
	}
}

type noopSink struct{}

// NewNoopSink returns a Sink that drops everything. Used in tests.
func NewNoopSink() Sink { return noopSink{} }

func (noopSink) Notify(context.Context, sharedtypes.UserID, string, string, string) {}
