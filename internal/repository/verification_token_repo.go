package repository

import (
	"context"
	"errors"

	"bookshelf/internal/entity"

	"gorm.io/gorm"
)

type VerificationTokenRepository interface {
	// Replace deletes every existing verification token for the owning user
	// and inserts the new one, keeping at most one active token per user.
	Replace(ctx context.Context, token *entity.EmailVerificationToken) error

	// Consume validates a token by hash and, in one transaction, deletes it
	// and marks the owning user's email verified. Returns the user, or nil
	// when the token is unknown, expired, or already consumed by a
	// concurrent request.
	Consume(ctx context.Context, tokenHash string) (*entity.User, error)

	DeleteExpired(ctx context.Context) error
}

type verificationTokenRepository struct {
	db *gorm.DB
}

func NewVerificationTokenRepository(db *gorm.DB) VerificationTokenRepository {
	return &verificationTokenRepository{db: db}
}

func (r *verificationTokenRepository) Replace(ctx context.Context, t *entity.EmailVerificationToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ?", t.UserID).
			Delete(&entity.EmailVerificationToken{}).
			Error; err != nil {
			return err
		}
		return tx.Create(t).Error
	})
}

func (r *verificationTokenRepository) Consume(ctx context.Context, tokenHash string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token entity.EmailVerificationToken
		err := tx.
			Where("token_hash = ? AND expires_at > NOW()", tokenHash).
			First(&token).Error
		if err != nil {
			return err
		}

		// The delete is the consumption gate: of two concurrent requests
		// holding the same token, only the one whose delete removes the row
		// proceeds.
		res := tx.Where("id = ?", token.ID).Delete(&entity.EmailVerificationToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.
			Model(&entity.User{}).
			Where("id = ?", token.UserID).
			Update("email_verified", true).
			Error; err != nil {
			return err
		}

		return tx.Where("id = ?", token.UserID).First(&user).Error
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *verificationTokenRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < NOW()").
		Delete(&entity.EmailVerificationToken{}).
		Error
}
