package unitofwork

import (
	"context"

	"shop-chatbot-be/internal/repository/contract"
)

// UnitOfWork hands out repositories bound to one transaction once Begin has
// been called, or to the plain connection before that.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ChatSettingRepository() contract.ChatSettingRepository
}
