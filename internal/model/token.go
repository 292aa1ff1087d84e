package model

import "time"

// Token is the opaque bearer credential issued on login or registration.
// The unique index on UserID keeps at most one live token per user.
type Token struct {
	Key       string `gorm:"primaryKey;size:40"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}
