package specification

import "gorm.io/gorm"

// BySessionID matches the client session id, not the row id.
type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByCustomerID struct {
	CustomerID string
}

func (s ByCustomerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("customer_id = ?", s.CustomerID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByRole struct {
	Role string
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}

// Newest orders by creation time, latest first.
func Newest() Specification {
	return OrderBy{Field: "created_at", Desc: true}
}

// Oldest orders by creation time, earliest first.
func Oldest() Specification {
	return OrderBy{Field: "created_at"}
}
