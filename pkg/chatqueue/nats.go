package chatqueue

import (
	"context"
	"fmt"

	"shop-chatbot-be/pkg/events"
)

// EventPublisher is satisfied by the NATS publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
	Close()
}

// NatsWriter publishes each record as a chat_message event.
type NatsWriter struct {
	publisher EventPublisher
}

func NewNatsWriter(publisher EventPublisher) *NatsWriter {
	return &NatsWriter{publisher: publisher}
}

func (w *NatsWriter) Enqueue(ctx context.Context, rec Record) error {
	data, err := rec.Map()
	if err != nil {
		return fmt.Errorf("encode chat record: %w", err)
	}
	return w.publisher.Publish(ctx, events.New(events.TypeChatMessage, data))
}

func (w *NatsWriter) Close() error {
	w.publisher.Close()
	return nil
}

// EventHandler adapts a batch Handler to single chat_message events. Other
// event types are acknowledged and skipped.
func EventHandler(h Handler) func(ctx context.Context, event events.Event) error {
	return func(ctx context.Context, event events.Event) error {
		if event.EventType() != events.TypeChatMessage {
			return nil
		}
		rec, err := FromMap(event.Payload())
		if err != nil {
			return err
		}
		return h(ctx, []Record{rec})
	}
}
