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

// SessionManager issues, validates, and revokes bearer session tokens.
type SessionManager struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	clock    Clock
	ttl      time.Duration
}

func NewSessionManager(sessions repository.SessionRepository, users repository.UserRepository, clock Clock, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionManager{sessions: sessions, users: users, clock: clock, ttl: ttl}
}

// Create persists a new session and returns it together with the raw
// bearer token. The raw token is not recoverable afterwards.
func (m *SessionManager) Create(ctx context.Context, userID uuid.UUID, ipAddress *string, userAgent *string) (*entity.Session, string, error) {
	raw, err := utils.GenerateRandomToken(utils.SessionTokenBytes)
	if err != nil {
		return nil, "", err
	}

	session := &entity.Session{
		UserID:    userID,
		TokenHash: utils.HashToken(raw),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: m.clock.Now().Add(m.ttl),
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, "", err
	}
	return session, raw, nil
}

// Validate resolves a raw bearer token to its session and owning user.
// Unknown and expired tokens both yield nils without error.
func (m *SessionManager) Validate(ctx context.Context, raw string) (*entity.Session, *entity.User, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil, nil
	}

	session, err := m.sessions.FindByTokenHash(ctx, utils.HashToken(raw))
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, nil
	}

	user, err := m.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, nil
	}
	return session, user, nil
}

// Revoke deletes the session behind a raw token. Unknown tokens are a no-op.
func (m *SessionManager) Revoke(ctx context.Context, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return m.sessions.DeleteByTokenHash(ctx, utils.HashToken(raw))
}

// RevokeAll deletes every session of a user.
func (m *SessionManager) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return m.sessions.DeleteAllByUser(ctx, userID)
}
