package contract

import (
	"context"

	"shop-chatbot-be/internal/entity"
	"shop-chatbot-be/internal/repository/specification"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Update(ctx context.Context, session *entity.ChatSession) error
	// EnsureExists creates the session row when none exists for
	// session.SessionId. created reports whether it did.
	EnsureExists(ctx context.Context, session *entity.ChatSession) (created bool, err error)
	UpdateStatus(ctx context.Context, sessionID, status string) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
