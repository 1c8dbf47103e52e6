package service

import (
	"context"
	"strings"
	"time"

	"bookshelf/internal/entity"
	"bookshelf/internal/repository"
	"bookshelf/internal/utils"

	"github.com/google/uuid"
)

// VerificationManager issues and consumes single-use email-verification
// tokens.
type VerificationManager struct {
	tokens repository.VerificationTokenRepository
	clock  Clock
	ttl    time.Duration
}

func NewVerificationManager(tokens repository.VerificationTokenRepository, clock Clock, ttl time.Duration) *VerificationManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &VerificationManager{tokens: tokens, clock: clock, ttl: ttl}
}

// Issue replaces any outstanding token for the user and returns the raw
// token for the verification email.
func (m *VerificationManager) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	raw, err := utils.GenerateRandomToken(utils.VerificationTokenBytes)
	if err != nil {
		return "", err
	}

	token := &entity.EmailVerificationToken{
		UserID:    userID,
		TokenHash: utils.HashToken(raw),
		ExpiresAt: m.clock.Now().Add(m.ttl),
	}
	if err := m.tokens.Replace(ctx, token); err != nil {
		return "", err
	}
	return raw, nil
}

// Consume atomically verifies the owning user and deletes the token.
// Unknown, expired, and already-consumed tokens all come back as a nil
// user; callers cannot tell the cases apart.
func (m *VerificationManager) Consume(ctx context.Context, raw string) (*entity.User, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return m.tokens.Consume(ctx, utils.HashToken(raw))
}
