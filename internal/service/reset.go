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

// PasswordResetManager issues and consumes single-use password-reset
// tokens. A successful consume also rewrites the password and revokes
// every session of the user, in one storage transaction.
type PasswordResetManager struct {
	tokens repository.ResetTokenRepository
	hasher PasswordHasher
	clock  Clock
	ttl    time.Duration
}

func NewPasswordResetManager(tokens repository.ResetTokenRepository, hasher PasswordHasher, clock Clock, ttl time.Duration) *PasswordResetManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PasswordResetManager{tokens: tokens, hasher: hasher, clock: clock, ttl: ttl}
}

func (m *PasswordResetManager) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	raw, err := utils.GenerateRandomToken(utils.VerificationTokenBytes)
	if err != nil {
		return "", err
	}

	token := &entity.PasswordResetToken{
		UserID:    userID,
		TokenHash: utils.HashToken(raw),
		ExpiresAt: m.clock.Now().Add(m.ttl),
	}
	if err := m.tokens.Replace(ctx, token); err != nil {
		return "", err
	}
	return raw, nil
}

// Consume returns the user whose password was changed, or nil when the
// token is invalid, expired, or already spent. On nil, no state changed
// and existing sessions remain valid.
func (m *PasswordResetManager) Consume(ctx context.Context, raw string, newPassword string) (*entity.User, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	newHash, err := m.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	return m.tokens.Consume(ctx, utils.HashToken(raw), newHash)
}
