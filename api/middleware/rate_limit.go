package middleware

import (
	"net/http"

	"bookshelf/internal/dto"
	"bookshelf/internal/ratelimit"

	"github.com/labstack/echo/v4"
)

// RateLimit throttles a route class by client address. A denial is a
// distinct 429 outcome, never conflated with validation failure.
func RateLimit(limiter *ratelimit.Limiter, class ratelimit.Class) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(c.Request().Context(), c.RealIP(), class) {
				return c.JSON(http.StatusTooManyRequests,
					dto.Error(dto.CodeRateLimited, "Too many requests. Please try again later."))
			}
			return next(c)
		}
	}
}
