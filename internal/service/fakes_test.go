package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"bookshelf/internal/entity"
	"bookshelf/internal/repository"
	"bookshelf/internal/utils"

	"github.com/google/uuid"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeStore mimics the persistence layer, including the transactional
// consume semantics the gorm repositories implement.
type fakeStore struct {
	mu            sync.Mutex
	clock         *fakeClock
	users         map[uuid.UUID]*entity.User
	verifications map[string]*entity.EmailVerificationToken
	resets        map[string]*entity.PasswordResetToken
	sessions      map[string]*entity.Session
}

func newFakeStore(clock *fakeClock) *fakeStore {
	return &fakeStore{
		clock:         clock,
		users:         make(map[uuid.UUID]*entity.User),
		verifications: make(map[string]*entity.EmailVerificationToken),
		resets:        make(map[string]*entity.PasswordResetToken),
		sessions:      make(map[string]*entity.Session),
	}
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeVerificationRepo struct{ store *fakeStore }

func (r *fakeVerificationRepo) Replace(_ context.Context, token *entity.EmailVerificationToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for hash, existing := range r.store.verifications {
		if existing.UserID == token.UserID {
			delete(r.store.verifications, hash)
		}
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	copied := *token
	r.store.verifications[token.TokenHash] = &copied
	return nil
}

func (r *fakeVerificationRepo) Consume(_ context.Context, tokenHash string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token, ok := r.store.verifications[tokenHash]
	if !ok || !token.ExpiresAt.After(r.store.clock.Now()) {
		return nil, nil
	}
	delete(r.store.verifications, tokenHash)
	user, ok := r.store.users[token.UserID]
	if !ok {
		return nil, nil
	}
	user.EmailVerified = true
	copied := *user
	return &copied, nil
}

func (r *fakeVerificationRepo) DeleteExpired(_ context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for hash, token := range r.store.verifications {
		if !token.ExpiresAt.After(r.store.clock.Now()) {
			delete(r.store.verifications, hash)
		}
	}
	return nil
}

type fakeResetRepo struct{ store *fakeStore }

func (r *fakeResetRepo) Replace(_ context.Context, token *entity.PasswordResetToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for hash, existing := range r.store.resets {
		if existing.UserID == token.UserID {
			delete(r.store.resets, hash)
		}
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	copied := *token
	r.store.resets[token.TokenHash] = &copied
	return nil
}

func (r *fakeResetRepo) Consume(_ context.Context, tokenHash string, newPasswordHash string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token, ok := r.store.resets[tokenHash]
	if !ok || !token.ExpiresAt.After(r.store.clock.Now()) {
		return nil, nil
	}
	delete(r.store.resets, tokenHash)
	user, ok := r.store.users[token.UserID]
	if !ok {
		return nil, nil
	}
	user.PasswordHash = newPasswordHash
	for hash, session := range r.store.sessions {
		if session.UserID == token.UserID {
			delete(r.store.sessions, hash)
		}
	}
	copied := *user
	return &copied, nil
}

func (r *fakeResetRepo) DeleteExpired(_ context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for hash, token := range r.store.resets {
		if !token.ExpiresAt.After(r.store.clock.Now()) {
			delete(r.store.resets, hash)
		}
	}
	return nil
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	copied := *session
	r.store.sessions[session.TokenHash] = &copied
	return nil
}

func (r *fakeSessionRepo) FindByTokenHash(_ context.Context, hash string) (*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session, ok := r.store.sessions[hash]
	if !ok || !session.ExpiresAt.After(r.store.clock.Now()) {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) DeleteByTokenHash(_ context.Context, hash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, hash)
	return nil
}

func (r *fakeSessionRepo) DeleteAllByUser(_ context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for hash, session := range r.store.sessions {
		if session.UserID == userID {
			delete(r.store.sessions, hash)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for hash, session := range r.store.sessions {
		if !session.ExpiresAt.After(r.store.clock.Now()) {
			delete(r.store.sessions, hash)
		}
	}
	return nil
}

type fakeSecurityLogRepo struct {
	mu      sync.Mutex
	entries []entity.SecurityLog
}

func (r *fakeSecurityLogRepo) Log(_ context.Context, log *entity.SecurityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *log)
	return nil
}

type sentEmail struct {
	kind  string
	to    string
	name  string
	token string
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (s *fakeEmailSender) SendVerificationEmail(_ context.Context, email string, name string, token string) error {
	return s.record("verification", email, name, token)
}

func (s *fakeEmailSender) SendPasswordResetEmail(_ context.Context, email string, name string, token string) error {
	return s.record("reset", email, name, token)
}

func (s *fakeEmailSender) record(kind string, email string, name string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentEmail{kind: kind, to: email, name: name, token: token})
	return nil
}

func (s *fakeEmailSender) last() sentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return sentEmail{}
	}
	return s.sent[len(s.sent)-1]
}

func (s *fakeEmailSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// plainHasher keeps service tests fast; hashing behavior itself is covered
// in auth_types_test.go.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(hash string, password string) bool { return hash == "hashed:"+password }

var errStoreDown = errors.New("store down")

// tokenHash mirrors what repositories store, for poking at fake state.
func tokenHash(raw string) string { return utils.HashToken(raw) }
