package implementation

import (
	"context"
	"time"

	"shop-chatbot-be/internal/entity"
	"shop-chatbot-be/internal/mapper"
	"shop-chatbot-be/internal/model"
	"shop-chatbot-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatSettingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatSettingRepository(db *gorm.DB) contract.ChatSettingRepository {
	return &ChatSettingRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatSettingRepositoryImpl) FindAll(ctx context.Context) ([]*entity.ChatSetting, error) {
	var models []*model.ChatSetting
	if err := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.ChatSetting, len(models))
	for i, m := range models {
		out[i] = r.mapper.ChatSettingToEntity(m)
	}
	return out, nil
}

// Upsert writes value and updated_by; the description is only set on insert.
func (r *ChatSettingRepositoryImpl) Upsert(ctx context.Context, setting *entity.ChatSetting) error {
	m := r.mapper.ChatSettingToModel(setting)
	m.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).
		Create(m).Error
}
