package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminSessionListRequest struct {
	Limit  int    `query:"limit" validate:"gte=1,lte=200"`
	Offset int    `query:"offset" validate:"gte=0"`
	Status string `query:"status"`
}

type AdminSessionResponse struct {
	Id            uuid.UUID              `json:"id"`
	SessionId     string                 `json:"session_id"`
	CustomerId    string                 `json:"customer_id,omitempty"`
	CustomerEmail string                 `json:"customer_email,omitempty"`
	CustomerName  string                 `json:"customer_name,omitempty"`
	Status        string                 `json:"status"`
	Metadata      map[string]interface{} `json:"metadata"`
	StartedAt     time.Time              `json:"started_at"`
	EndedAt       *time.Time             `json:"ended_at"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     *time.Time             `json:"updated_at"`
	MessageCount  int64                  `json:"message_count"`
	LastMessage   *time.Time             `json:"last_message"`
	LastIntent    *string                `json:"last_intent"`
}

type AdminSessionListResponse struct {
	Sessions []AdminSessionResponse `json:"sessions"`
	Total    int64                  `json:"total"`
}

type AdminMessageResponse struct {
	Id             uuid.UUID     `json:"id"`
	SessionId      string        `json:"session_id"`
	Role           string        `json:"role"`
	Content        string        `json:"content"`
	Intent         *string       `json:"intent"`
	ResponseTimeMs *int64        `json:"response_time_ms"`
	Timestamp      time.Time     `json:"timestamp"`
	Products       []interface{} `json:"products"`
}

type AdminMessageListResponse struct {
	Messages []AdminMessageResponse `json:"messages"`
}

type AdminStatsResponse struct {
	TotalSessions     int64   `json:"total_sessions"`
	ActiveSessions    int64   `json:"active_sessions"`
	EscalatedSessions int64   `json:"escalated_sessions"`
	TotalMessages     int64   `json:"total_messages"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
}

type UpdateSessionStatusRequest struct {
	Status string `query:"status" json:"status" validate:"required,oneof=active closed archived"`
}

type UpdateSessionStatusResponse struct {
	SessionId string `json:"session_id"`
	Status    string `json:"status"`
}

// UpdateSettingsRequest values are stored as strings whatever their JSON type.
type UpdateSettingsRequest map[string]interface{}

type SettingsResponse struct {
	Status   string            `json:"status,omitempty"`
	Settings map[string]string `json:"settings"`
}

// Log ids are MD5 hashes of the log line, not UUIDs.
type LogListResponse struct {
	Id        string    `json:"id"`
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
