package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id             uuid.UUID
	SessionId      string
	Role           string
	Content        string
	Intent         string
	TokensUsed     *int
	ResponseTimeMs *int64
	Metadata       map[string]interface{}
	CreatedAt      time.Time
}

// ProductIDs returns the product ids recorded with an assistant reply.
func (m *ChatMessage) ProductIDs() []string {
	return stringList(m.Metadata["product_ids"])
}

// Products returns the product cards recorded with an assistant reply, as
// stored.
func (m *ChatMessage) Products() []interface{} {
	if products, ok := m.Metadata["products"].([]interface{}); ok {
		return products
	}
	return nil
}

func stringList(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
