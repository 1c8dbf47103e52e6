package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SecurityAction string

const (
	Registered         SecurityAction = "registered"
	VerifiedEmail      SecurityAction = "email_verified"
	LoginSuccess       SecurityAction = "login_success"
	LoginFailed        SecurityAction = "login_failed"
	Logout             SecurityAction = "logout"
	PasswordResetAsked SecurityAction = "password_reset_requested"
	PasswordResetDone  SecurityAction = "password_reset"
)

// SecurityLog is an append-only audit trail of auth events. Writes are
// best-effort and never fail the flow that produced them.
type SecurityLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"constraint:OnDelete:SET NULL"`

	IPAddress *string        `gorm:"type:varchar(45)"`
	Action    SecurityAction `gorm:"type:varchar(40);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
