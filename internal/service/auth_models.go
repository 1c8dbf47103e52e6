package service

import (
	"time"

	"bookshelf/internal/entity"
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress *string
	UserAgent *string
}

// UserSummary is the slice of a user that crosses the HTTP boundary.
type UserSummary struct {
	ID    string
	Email string
	Name  string
}

func SummarizeUser(user *entity.User) UserSummary {
	return UserSummary{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	}
}

// LoginResult carries the raw session token; it is never persisted or
// logged in this form.
type LoginResult struct {
	User           UserSummary
	SessionToken   string
	SessionExpires time.Time
}
