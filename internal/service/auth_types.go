package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// EmailSender delivers the two transactional mails the auth flows need.
// The token is the raw secret; senders embed it in a link and must not log it.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email string, name string, token string) error
	SendPasswordResetEmail(ctx context.Context, email string, name string, token string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// BcryptPasswordHasher embeds the cost in each digest, so the work factor
// can be raised without invalidating stored hashes. Verify is a
// constant-time comparison.
type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
