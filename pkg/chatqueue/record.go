// Package chatqueue moves chat history off the request path. The chat handler
// enqueues a Record per turn and returns; a consumer persists records later,
// at least once.
package chatqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// TypeMessage marks a record that becomes a chat_messages row. Other
	// types are accepted on the queue and ignored by the persister.
	TypeMessage = "message"

	DefaultTopic = "chat_messages"
)

// Record is the flat queue payload.
type Record struct {
	Type           string         `json:"type"`
	SessionID      string         `json:"session_id"`
	Role           string         `json:"role"`
	Content        string         `json:"content"`
	Intent         string         `json:"intent,omitempty"`
	ResponseTimeMs *int64         `json:"response_time_ms,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewMessage builds a message record stamped now.
func NewMessage(sessionID, role, content, intent string, metadata map[string]any) Record {
	return Record{
		Type:      TypeMessage,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Intent:    intent,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}

// WithResponseTime sets the assistant latency.
func (r Record) WithResponseTime(d time.Duration) Record {
	ms := d.Milliseconds()
	r.ResponseTimeMs = &ms
	return r
}

func (r Record) IsMessage() bool {
	return r.Type == TypeMessage
}

// Map is the record as a generic JSON object, for event payloads.
func (r Record) Map() (map[string]interface{}, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode parses a queued record. A missing type means message.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("decode chat record: %w", err)
	}
	if r.Type == "" {
		r.Type = TypeMessage
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return r, nil
}

// FromMap is the inverse of Map.
func FromMap(m map[string]interface{}) (Record, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return Record{}, fmt.Errorf("encode chat record: %w", err)
	}
	return Decode(raw)
}

// Messages keeps only the records that become chat messages.
func Messages(batch []Record) []Record {
	out := make([]Record, 0, len(batch))
	for _, r := range batch {
		if r.IsMessage() && r.SessionID != "" {
			out = append(out, r)
		}
	}
	return out
}

// Writer enqueues records. Enqueue must not wait for persistence.
type Writer interface {
	Enqueue(ctx context.Context, rec Record) error
	Close() error
}

// Handler persists one batch. Returning an error asks the driver to
// redeliver the whole batch.
type Handler func(ctx context.Context, batch []Record) error
