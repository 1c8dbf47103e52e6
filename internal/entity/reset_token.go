package entity

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken shares the lifecycle of EmailVerificationToken, but
// consuming it additionally rewrites the password hash and deletes every
// session the user holds, all in one transaction.
type PasswordResetToken struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	TokenHash string `gorm:"type:text;not null;uniqueIndex"`

	ExpiresAt time.Time `gorm:"not null"`

	CreatedAt time.Time
}
