package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookshelf/api/middleware"
	"bookshelf/internal/dto"
	"bookshelf/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Service  *service.AuthService
	Validate *validator.Validate
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{Service: svc, Validate: validate}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := h.bind(c, &req); err != nil {
		return writeValidationError(c, err)
	}

	user, err := h.Service.Register(c.Request().Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyRegistered) {
			return writeError(c, http.StatusConflict, dto.CodeUserExists,
				"User with this email already exists.")
		}
		return writeInternal(c, "Error registering user.")
	}

	summary := service.SummarizeUser(user)
	return c.JSON(http.StatusCreated, dto.Success(
		"User created successfully. Please check your email to verify your account.",
		dto.RegisterData{User: dto.UserPayloadFromSummary(summary)},
	))
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return writeError(c, http.StatusBadRequest, dto.CodeInvalidToken,
			"Verification token is required.")
	}

	if err := h.Service.VerifyEmail(c.Request().Context(), token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return writeError(c, http.StatusBadRequest, dto.CodeInvalidToken,
				"Invalid or expired verification token.")
		}
		return writeInternal(c, "Error during email verification.")
	}

	return c.JSON(http.StatusOK, dto.Success("Email verified successfully.", nil))
}

func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req dto.ResendVerificationRequest
	if err := h.bind(c, &req); err != nil {
		return writeValidationError(c, err)
	}

	// Unknown emails fall through to the identical success body below; the
	// response must not reveal whether the account exists.
	if err := h.Service.ResendVerification(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrAlreadyVerified) {
			return writeError(c, http.StatusBadRequest, dto.CodeAlreadyVerified,
				"This email is already verified.")
		}
		return writeInternal(c, "Error resending verification email.")
	}

	return c.JSON(http.StatusOK, dto.Success(
		"If your email exists, a verification link has been sent.", nil))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := h.bind(c, &req); err != nil {
		return writeValidationError(c, err)
	}

	result, err := h.Service.Login(c.Request().Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: stringPtr(c.RealIP()),
		UserAgent: stringPtr(c.Request().UserAgent()),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return writeError(c, http.StatusConflict, dto.CodeInvalidCreds,
				"Invalid email or password.")
		case errors.Is(err, service.ErrEmailNotVerified):
			return writeError(c, http.StatusForbidden, dto.CodeNotVerified,
				"Your email is not verified. A new verification email has been sent.")
		default:
			return writeInternal(c, "Error during login.")
		}
	}

	return c.JSON(http.StatusOK, dto.Success("Login successful.", dto.LoginData{
		User:           dto.UserPayloadFromSummary(result.User),
		SessionToken:   result.SessionToken,
		SessionExpires: result.SessionExpires,
	}))
}

func (h *AuthHandler) RequestReset(c echo.Context) error {
	var req dto.RequestResetRequest
	if err := h.bind(c, &req); err != nil {
		return writeValidationError(c, err)
	}

	if err := h.Service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return writeInternal(c, "Error requesting password reset email.")
	}

	return c.JSON(http.StatusOK, dto.Success(
		"If your email exists, a password reset link has been sent.", nil))
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := h.bind(c, &req); err != nil {
		return writeValidationError(c, err)
	}

	if err := h.Service.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return writeError(c, http.StatusBadRequest, dto.CodeInvalidToken,
				"Invalid or expired reset token.")
		}
		return writeInternal(c, "Error resetting password.")
	}

	return c.JSON(http.StatusOK, dto.Success(
		"Password reset successful. Please login with your new password.", nil))
}

// Logout succeeds no matter what the client sends: a valid token revokes
// the session, anything else is ignored.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.ExtractBearerToken(c.Request())

	if err := h.Service.Logout(c.Request().Context(), token, stringPtr(c.RealIP())); err != nil {
		return writeInternal(c, "Error during logout.")
	}

	return c.JSON(http.StatusOK, dto.Success("Logged out successfully.", nil))
}

// ValidateSession runs behind SessionAuth, which already resolved the user.
func (h *AuthHandler) ValidateSession(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, dto.CodeUnauthenticated, "No session found")
	}

	summary := service.SummarizeUser(user)
	return c.JSON(http.StatusOK, dto.Success("Session valid", dto.ValidateData{
		User: dto.UserPayloadFromSummary(summary),
	}))
}

func (h *AuthHandler) bind(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(target)
}

func writeValidationError(c echo.Context, err error) error {
	return writeError(c, http.StatusBadRequest, dto.CodeValidation, err.Error())
}

func writeError(c echo.Context, status int, code string, message string) error {
	return c.JSON(status, dto.Error(code, message))
}

func writeInternal(c echo.Context, message string) error {
	return writeError(c, http.StatusInternalServerError, dto.CodeInternal, message)
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
