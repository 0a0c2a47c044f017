package models

import (
	"time"

	"gorm.io/gorm"
)

// PasswordResetToken stores a bcrypt hash of a one-time reset token.
type PasswordResetToken struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
	IsDeleted bool      `gorm:"default:false"`
}

// RevokedToken is a refresh token blacklisted by logout.
type RevokedToken struct {
	gorm.Model
	JTI       string    `gorm:"uniqueIndex;size:64;not null" json:"jti"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}
