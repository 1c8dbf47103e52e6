package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailVerificationToken is single-use. Issuing deletes any predecessors
// for the same user, so at most one row per user is ever active; consuming
// deletes the row in the same transaction that flips User.EmailVerified.
type EmailVerificationToken struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	TokenHash string `gorm:"type:text;not null;uniqueIndex"`

	ExpiresAt time.Time `gorm:"not null"`

	CreatedAt time.Time
}
