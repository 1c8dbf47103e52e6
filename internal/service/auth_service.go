package service

import (
	"context"
	"encoding/json"
	"errors"

	"bookshelf/internal/entity"
	"bookshelf/internal/repository"
	"bookshelf/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Never matches any password; compared against when the user does not
// exist so missing and wrong-password logins take the same time.
const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

// AuthService composes the token and session managers into the
// register/login/logout/verify/reset flows and owns the
// enumeration-safety policy. Store and email failures are logged here and
// propagate as opaque errors; the handlers turn anything that is not a
// sentinel into a generic 500.
type AuthService struct {
	users         repository.UserRepository
	verifications *VerificationManager
	resets        *PasswordResetManager
	sessions      *SessionManager
	securityLogs  repository.SecurityLogRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	logger       *logrus.Logger
}

func NewAuthService(
	users repository.UserRepository,
	verifications *VerificationManager,
	resets *PasswordResetManager,
	sessions *SessionManager,
	securityLogs repository.SecurityLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		verifications: verifications,
		resets:        resets,
		sessions:      sessions,
		securityLogs:  securityLogs,
		emailSender:   emailSender,
		passwordHash:  passwordHash,
		logger:        logger,
	}
}

// Register creates an unverified user and emails a verification token.
// An existing email is a conflict: unlike the resend and reset flows,
// registration does not mask account existence.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	email := utils.NormalizeEmail(input.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, s.internal("register: find user", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, s.internal("register: hash password", err)
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
		Name:         input.Name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Two racing registrations can both pass the lookup; the unique
		// index decides, and the loser sees the same conflict.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, s.internal("register: create user", err)
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return nil, err
	}

	s.logSecurity(ctx, &user.ID, nil, entity.Registered, nil)
	return user, nil
}

// VerifyEmail consumes a verification token, flipping the user to
// verified. Invalid and expired tokens are indistinguishable.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.verifications.Consume(ctx, token)
	if err != nil {
		return s.internal("verify email: consume token", err)
	}
	if user == nil {
		return ErrInvalidToken
	}

	s.logSecurity(ctx, &user.ID, nil, entity.VerifiedEmail, nil)
	return nil
}

// ResendVerification re-issues a verification token. A nil return for an
// unknown email is deliberate: the handler answers identically whether or
// not the account exists. ErrAlreadyVerified does leak verification
// status, but only for an address the caller already knows is registered.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return s.internal("resend verification: find user", err)
	}
	if user == nil {
		return nil
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	return s.sendVerification(ctx, user)
}

// Login authenticates credentials and opens a session. An unverified
// account gets a fresh verification token and email instead of a session.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := utils.NormalizeEmail(input.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, s.internal("login: find user", err)
	}
	if user == nil {
		// Burn the same hashing work as the real comparison.
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		s.logSecurity(ctx, nil, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(user.PasswordHash, input.Password) {
		s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		if err := s.sendVerification(ctx, user); err != nil {
			return nil, err
		}
		return nil, ErrEmailNotVerified
	}

	session, raw, err := s.sessions.Create(ctx, user.ID, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, s.internal("login: create session", err)
	}

	s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginSuccess, nil)
	return &LoginResult{
		User:           SummarizeUser(user),
		SessionToken:   raw,
		SessionExpires: session.ExpiresAt,
	}, nil
}

// RequestPasswordReset issues a reset token and emails it. Unknown emails
// return nil so the handler's response is identical either way.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return s.internal("request reset: find user", err)
	}
	if user == nil {
		return nil
	}

	token, err := s.resets.Issue(ctx, user.ID)
	if err != nil {
		return s.internal("request reset: issue token", err)
	}

	if s.emailSender != nil {
		if err := s.emailSender.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
			return s.internal("request reset: send email", err)
		}
	}

	s.logSecurity(ctx, &user.ID, nil, entity.PasswordResetAsked, nil)
	return nil
}

// ResetPassword consumes a reset token: the password change, token
// deletion, and revocation of every session land atomically or not at all.
func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	user, err := s.resets.Consume(ctx, token, newPassword)
	if err != nil {
		return s.internal("reset password: consume token", err)
	}
	if user == nil {
		return ErrInvalidToken
	}

	s.logSecurity(ctx, &user.ID, nil, entity.PasswordResetDone, nil)
	return nil
}

// Logout revokes the session behind the raw token, if any. Absent and
// unknown tokens succeed; logout is a no-op-safe operation.
func (s *AuthService) Logout(ctx context.Context, token string, ipAddress *string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return s.internal("logout: revoke session", err)
	}
	s.logSecurity(ctx, nil, ipAddress, entity.Logout, nil)
	return nil
}

// ValidateSession resolves a bearer token to its user; (nil, nil) means
// missing, unknown, or expired.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*entity.User, error) {
	_, user, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return nil, s.internal("validate session", err)
	}
	return user, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *entity.User) error {
	token, err := s.verifications.Issue(ctx, user.ID)
	if err != nil {
		return s.internal("issue verification token", err)
	}
	if s.emailSender == nil {
		return nil
	}
	if err := s.emailSender.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		return s.internal("send verification email", err)
	}
	return nil
}

// internal logs a store/email failure at the boundary and passes it on
// unchanged; no detail reaches the client.
func (s *AuthService) internal(op string, err error) error {
	if s.logger != nil {
		s.logger.WithError(err).Error(op)
	}
	return err
}

func (s *AuthService) logSecurity(ctx context.Context, userID *uuid.UUID, ipAddress *string, action entity.SecurityAction, metadata map[string]any) {
	if s.securityLogs == nil {
		return
	}

	var payload datatypes.JSON
	if metadata != nil {
		if bytes, err := json.Marshal(metadata); err == nil {
			payload = datatypes.JSON(bytes)
		}
	}

	log := &entity.SecurityLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	if err := s.securityLogs.Log(ctx, log); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("security log write failed")
	}
}
