package entity

import "time"

type ChatSetting struct {
	Key         string
	Value       string
	Description string
	UpdatedBy   string
	UpdatedAt   time.Time
}
