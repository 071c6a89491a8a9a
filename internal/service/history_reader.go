package service

import (
	"context"
	"time"

	"shop-chatbot-be/internal/repository/specification"
	"shop-chatbot-be/internal/repository/unitofwork"
	"shop-chatbot-be/pkg/assistant"
)

// HistoryReader serves the normalizer with the persisted conversation.
type HistoryReader struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewHistoryReader(uowFactory unitofwork.RepositoryFactory) *HistoryReader {
	return &HistoryReader{uowFactory: uowFactory}
}

// RecentTurns returns the last limit messages oldest first, and the product
// ids they recorded with the newest message's ids first.
func (h *HistoryReader) RecentTurns(ctx context.Context, sessionID string, limit int) ([]assistant.Turn, []string, error) {
	uow := h.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.Newest(),
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, nil, err
	}

	turns := make([]assistant.Turn, len(messages))
	var productIDs []string
	for i, m := range messages {
		turns[len(messages)-1-i] = assistant.Turn{
			Role:      m.Role,
			Content:   m.Content,
			Intent:    m.Intent,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		}
		productIDs = append(productIDs, m.ProductIDs()...)
	}
	return turns, productIDs, nil
}
