package dto

import (
	"time"

	"bookshelf/internal/service"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=255"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// Machine-readable error codes; clients switch on these, not on messages.
const (
	CodeUserExists      = "USER_EXISTS"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeAlreadyVerified = "ALREADY_VERIFIED"
	CodeInvalidCreds    = "INVALID_CREDENTIALS"
	CodeNotVerified     = "EMAIL_NOT_VERIFIED"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeValidation      = "VALIDATION_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// APIResponse is the single envelope every route answers with: a status,
// a stable machine-readable code on errors, and a human-readable message.
type APIResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(message string, data any) APIResponse {
	return APIResponse{Status: "success", Message: message, Data: data}
}

func Error(code string, message string) APIResponse {
	return APIResponse{Status: "error", Code: code, Message: message}
}

type UserPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func UserPayloadFromSummary(summary service.UserSummary) UserPayload {
	return UserPayload{ID: summary.ID, Email: summary.Email, Name: summary.Name}
}

type RegisterData struct {
	User UserPayload `json:"user"`
}

type LoginData struct {
	User           UserPayload `json:"user"`
	SessionToken   string      `json:"sessionToken"`
	SessionExpires time.Time   `json:"sessionExpires"`
}

type ValidateData struct {
	User UserPayload `json:"user"`
}
