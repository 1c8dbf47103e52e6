package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	Name         string    `gorm:"type:varchar(255);not null"`

	EmailVerified bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Sessions []Session
}
