package entity

import "time"

// IdempotencyKey stores processed requests to prevent duplicate payments
type IdempotencyKey struct {
	ID           uint      `gorm:"primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_key_employee;size:255;not null"` // The idempotency key from client
	EmployeeID   uint      `gorm:"uniqueIndex:idx_idempotency_key_employee;not null"`
	Endpoint     string    `gorm:"size:255;not null"` // API endpoint (e.g., "POST /invoices")
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
