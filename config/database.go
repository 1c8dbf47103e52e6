package config

import (
	"fmt"

	"bookshelf/internal/entity"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenDatabase connects to postgres. TranslateError maps driver errors
// like unique violations onto gorm's sentinel errors, which the
// repositories rely on.
func OpenDatabase(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  databaseURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the auth tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Session{},
		&entity.EmailVerificationToken{},
		&entity.PasswordResetToken{},
		&entity.SecurityLog{},
	)
}
