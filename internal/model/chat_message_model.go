package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMessage struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	SessionId      string            `gorm:"type:varchar(255);not null;index:idx_chat_messages_session_created,priority:1"`
	Role           string            `gorm:"type:varchar(20);not null"`
	Content        string            `gorm:"type:text;not null"`
	Intent         string            `gorm:"type:varchar(100)"`
	TokensUsed     *int              `gorm:"type:integer"`
	ResponseTimeMs *int64            `gorm:"type:bigint"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"index:idx_chat_messages_session_created,priority:2"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return nil
}
