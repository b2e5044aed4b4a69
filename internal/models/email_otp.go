package models

import "time"

// EmailOTP stores the pending verification code for an unverified user.
// At most one row exists per user; regeneration replaces it.
type EmailOTP struct {
	BaseModel

	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CodeHash  string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}
