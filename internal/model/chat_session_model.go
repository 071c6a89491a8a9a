package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatSession is one storefront conversation. SessionId is the client
// generated id every other table refers to.
type ChatSession struct {
	Id            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	SessionId     string            `gorm:"type:varchar(255);not null;uniqueIndex"`
	CustomerId    string            `gorm:"type:varchar(255);index"`
	CustomerEmail string            `gorm:"type:varchar(255)"`
	CustomerName  string            `gorm:"type:varchar(255)"`
	Status        string            `gorm:"type:varchar(50);not null;default:active;index"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb"`
	StartedAt     time.Time         `gorm:"not null"`
	EndedAt       *time.Time
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime;index"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.Id == uuid.Nil {
		s.Id = uuid.New()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	return nil
}
