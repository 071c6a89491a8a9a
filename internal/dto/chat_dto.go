package dto

import (
	"time"

	"github.com/google/uuid"
)

// ChatRequest is the storefront widget's message. Metadata may carry
// user_type and cart_id.
type ChatRequest struct {
	Message    string                 `json:"message" validate:"required"`
	SessionId  string                 `json:"session_id" validate:"required"`
	CustomerId string                 `json:"customer_id,omitempty"`
	Tag        string                 `json:"tag,omitempty"`
	Language   string                 `json:"language,omitempty" validate:"omitempty,oneof=vi en"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// MetadataString reads a string field of Metadata.
func (r *ChatRequest) MetadataString(key string) string {
	if r.Metadata == nil {
		return ""
	}
	s, _ := r.Metadata[key].(string)
	return s
}

type SuggestionsRequest struct {
	UserType   string `json:"user_type"`
	Tag        string `json:"tag,omitempty"`
	CustomerId string `json:"customer_id,omitempty"`
	Intent     string `json:"intent,omitempty"`
}

type ContextNodeDTO struct {
	Id       string           `json:"id"`
	Label    string           `json:"label"`
	Tag      *string          `json:"tag"`
	Type     string           `json:"type"`
	Value    *string          `json:"value"`
	Children []ContextNodeDTO `json:"children"`
}

type SuggestionsResponse struct {
	Suggestions []ContextNodeDTO `json:"suggestions"`
}

type HistoryMessageDTO struct {
	Id        uuid.UUID     `json:"id"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	Timestamp time.Time     `json:"timestamp"`
	Products  []interface{} `json:"products"`
}

type ChatHistoryResponse struct {
	Messages []HistoryMessageDTO `json:"messages"`
}

type ActiveSessionResponse struct {
	SessionId *string `json:"session_id"`
}

type ClearSessionResponse struct {
	SessionId string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
	Message   string `json:"message"`
}

type EscalateRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Reason    string `json:"reason,omitempty"`
}

type EscalateResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	SessionId string `json:"session_id"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	Model         string `json:"model"`
	Provider      string `json:"provider"`
	AgentsEnabled bool   `json:"agents_enabled"`
	QueueDriver   string `json:"queue_driver"`
}
