package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyStatus tracks whether the request owning a key has finished
type IdempotencyStatus string

const (
	IdempotencyPending   IdempotencyStatus = "pending"
	IdempotencyCompleted IdempotencyStatus = "completed"
)

// IdempotencyKey caches the response of a processed write so that a retried
// request with the same key replays it instead of recording a second sale.
// A pending key belongs to a request that is still running.
type IdempotencyKey struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string            `gorm:"uniqueIndex:idx_idempotency_user_key;size:255;not null"`
	UserID       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_user_key"`
	Endpoint     string            `gorm:"size:255;not null"`
	Status       IdempotencyStatus `gorm:"size:16;not null;default:'pending'"`
	ResponseCode int               `gorm:"not null;default:0"`
	ResponseBody string            `gorm:"type:text"`
	CreatedAt    time.Time         `gorm:"autoCreateTime"`
	ExpiresAt    time.Time         `gorm:"not null;index"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsPending reports whether the owning request has not finished yet
func (i *IdempotencyKey) IsPending() bool {
	return i.Status == IdempotencyPending
}
