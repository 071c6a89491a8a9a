package implementation

import (
	"context"
	"errors"

	"shop-chatbot-be/internal/entity"
	"shop-chatbot-be/internal/mapper"
	"shop-chatbot-be/internal/model"
	"shop-chatbot-be/internal/repository/contract"
	"shop-chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ChatMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ChatMessageToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	models := make([]*model.ChatMessage, len(messages))
	for i, msg := range messages {
		models[i] = r.mapper.ChatMessageToModel(msg)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*messages[i] = *r.mapper.ChatMessageToEntity(m)
	}
	return nil
}

func (r *ChatMessageRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&model.ChatMessage{})
	return res.RowsAffected, res.Error
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatMessagesToEntities(models), nil
}

func (r *ChatMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.ChatMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChatMessageRepositoryImpl) AverageResponseTime(ctx context.Context, role string) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("role = ? AND response_time_ms IS NOT NULL", role).
		Select("COALESCE(AVG(response_time_ms), 0)").
		Row().
		Scan(&avg)
	return avg, err
}

func (r *ChatMessageRepositoryImpl) AggregateBySession(ctx context.Context, sessionIDs []string) (map[string]contract.MessageAggregate, error) {
	out := make(map[string]contract.MessageAggregate, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return out, nil
	}

	var counts []struct {
		SessionId    string
		MessageCount int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Select("session_id, COUNT(*) AS message_count").
		Where("session_id IN ?", sessionIDs).
		Group("session_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	for _, c := range counts {
		agg := contract.MessageAggregate{SessionId: c.SessionId, MessageCount: c.MessageCount}

		// the latest row gives both the timestamp and the intent
		var last model.ChatMessage
		err := r.db.WithContext(ctx).
			Where("session_id = ?", c.SessionId).
			Order("created_at DESC").
			First(&last).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil {
			t := last.CreatedAt
			agg.LastMessage = &t
			agg.LastIntent = last.Intent
		}
		out[c.SessionId] = agg
	}
	return out, nil
}
