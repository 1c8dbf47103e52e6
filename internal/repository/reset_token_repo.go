package repository

import (
	"context"
	"errors"

	"bookshelf/internal/entity"

	"gorm.io/gorm"
)

type ResetTokenRepository interface {
	// Replace deletes every existing reset token for the owning user and
	// inserts the new one.
	Replace(ctx context.Context, token *entity.PasswordResetToken) error

	// Consume validates a token by hash and, in one transaction, deletes it,
	// rewrites the owning user's password hash, and deletes all of that
	// user's sessions. Returns the user, or nil when the token is unknown,
	// expired, or lost the consumption race. On nil, nothing was changed.
	Consume(ctx context.Context, tokenHash string, newPasswordHash string) (*entity.User, error)

	DeleteExpired(ctx context.Context) error
}

type resetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Replace(ctx context.Context, t *entity.PasswordResetToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ?", t.UserID).
			Delete(&entity.PasswordResetToken{}).
			Error; err != nil {
			return err
		}
		return tx.Create(t).Error
	})
}

func (r *resetTokenRepository) Consume(ctx context.Context, tokenHash string, newPasswordHash string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token entity.PasswordResetToken
		err := tx.
			Where("token_hash = ? AND expires_at > NOW()", tokenHash).
			First(&token).Error
		if err != nil {
			return err
		}

		res := tx.Where("id = ?", token.ID).Delete(&entity.PasswordResetToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.
			Model(&entity.User{}).
			Where("id = ?", token.UserID).
			Update("password_hash", newPasswordHash).
			Error; err != nil {
			return err
		}

		// A reset must not leave any pre-reset session usable.
		if err := tx.
			Where("user_id = ?", token.UserID).
			Delete(&entity.Session{}).
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

func (r *resetTokenRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < NOW()").
		Delete(&entity.PasswordResetToken{}).
		Error
}
