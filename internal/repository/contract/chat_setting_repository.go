package contract

import (
	"context"

	"shop-chatbot-be/internal/entity"
)

type ChatSettingRepository interface {
	FindAll(ctx context.Context) ([]*entity.ChatSetting, error)
	Upsert(ctx context.Context, setting *entity.ChatSetting) error
}
