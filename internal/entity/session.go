package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a long-lived bearer credential. Only the token hash is stored;
// the raw token leaves the process exactly once, in the login response.
// Expired rows may linger until the sweeper runs, so every lookup filters
// on expires_at.
type Session struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	TokenHash string `gorm:"type:text;not null;uniqueIndex"`

	IPAddress *string `gorm:"type:varchar(45)"`
	UserAgent *string `gorm:"type:text"`

	ExpiresAt time.Time `gorm:"not null"`

	CreatedAt time.Time
}
