package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id            uuid.UUID
	SessionId     string
	CustomerId    string
	CustomerEmail string
	CustomerName  string
	Status        string
	Metadata      map[string]interface{}
	StartedAt     time.Time
	EndedAt       *time.Time
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// ChatSessionSummary is a session with the aggregates the admin list shows.
type ChatSessionSummary struct {
	ChatSession
	MessageCount  int64
	LastMessageAt *time.Time
	LastIntent    string
}
