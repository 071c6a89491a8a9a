package model

import "time"

type ChatSetting struct {
	Key         string `gorm:"type:varchar(100);primaryKey"`
	Value       string `gorm:"type:text;not null"`
	Description string `gorm:"type:text"`
	UpdatedBy   string `gorm:"type:varchar(255)"`
	UpdatedAt   time.Time
}

func (ChatSetting) TableName() string {
	return "chat_settings"
}
