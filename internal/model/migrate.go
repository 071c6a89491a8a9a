package model

import "gorm.io/gorm"

// All lists every table the service owns, in dependency order.
func All() []interface{} {
	return []interface{}{
		&ChatSession{},
		&ChatMessage{},
		&ChatSetting{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
