package contract

import (
	"context"
	"time"

	"shop-chatbot-be/internal/entity"
	"shop-chatbot-be/internal/repository/specification"
)

// MessageAggregate is the per-session roll-up used by the admin session list.
type MessageAggregate struct {
	SessionId    string
	MessageCount int64
	LastMessage  *time.Time
	LastIntent   string
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error
	DeleteBySessionId(ctx context.Context, sessionID string) (int64, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// AverageResponseTime is the mean response_time_ms of messages with the
	// given role, 0 when there are none.
	AverageResponseTime(ctx context.Context, role string) (float64, error)
	AggregateBySession(ctx context.Context, sessionIDs []string) (map[string]MessageAggregate, error)
}
