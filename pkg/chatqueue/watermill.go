package chatqueue

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// WatermillWriter publishes to an in-process watermill topic. The publisher
// is owned by the caller and is not closed here.
type WatermillWriter struct {
	publisher message.Publisher
	topic     string
}

func NewWatermillWriter(publisher message.Publisher, topic string) *WatermillWriter {
	if topic == "" {
		topic = DefaultTopic
	}
	return &WatermillWriter{publisher: publisher, topic: topic}
}

func (w *WatermillWriter) Enqueue(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	msg.SetContext(ctx)
	return w.publisher.Publish(w.topic, msg)
}

func (w *WatermillWriter) Close() error {
	return nil
}
