package middleware

import (
	"net/http"
	"strings"

	"bookshelf/internal/dto"
	"bookshelf/internal/service"

	"github.com/labstack/echo/v4"
)

type SessionAuth struct {
	Auth *service.AuthService
}

// RequireSession resolves the bearer token to a user and puts it on the
// request context. A missing header and an unknown or expired token are
// both unauthorized, with messages matching what the front end expects.
func (m SessionAuth) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := ExtractBearerToken(c.Request())
		if token == "" {
			return c.JSON(http.StatusUnauthorized,
				dto.Error(dto.CodeUnauthenticated, "No session found"))
		}

		user, err := m.Auth.ValidateSession(c.Request().Context(), token)
		if err != nil {
			return c.JSON(http.StatusInternalServerError,
				dto.Error(dto.CodeInternal, "Error during session validation."))
		}
		if user == nil {
			return c.JSON(http.StatusUnauthorized,
				dto.Error(dto.CodeUnauthenticated, "Session expired"))
		}

		SetAuthContext(c, user)
		return next(c)
	}
}

// ExtractBearerToken pulls the credential from an Authorization header.
// Anything not shaped like "Bearer <token>" yields the empty string.
func ExtractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
