package routes

import (
	"bookshelf/api/handler"
	"bookshelf/api/middleware"
	"bookshelf/internal/ratelimit"

	"github.com/labstack/echo/v4"
)

type Router struct {
	Echo        *echo.Echo
	Auth        *handler.AuthHandler
	SessionAuth middleware.SessionAuth
	Limiter     *ratelimit.Limiter
}

func NewRouter(e *echo.Echo, authHandler *handler.AuthHandler, sessionAuth middleware.SessionAuth, limiter *ratelimit.Limiter) *Router {
	return &Router{
		Echo:        e,
		Auth:        authHandler,
		SessionAuth: sessionAuth,
		Limiter:     limiter,
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	auth := middleware.RateLimit(r.Limiter, ratelimit.ClassAuth)
	email := middleware.RateLimit(r.Limiter, ratelimit.ClassEmail)
	reset := middleware.RateLimit(r.Limiter, ratelimit.ClassReset)

	e.POST("/auth/register", r.Auth.Register, auth)
	e.GET("/auth/verify-email", r.Auth.VerifyEmail)
	e.POST("/auth/resend-verification", r.Auth.ResendVerification, email)
	e.POST("/auth/login", r.Auth.Login, auth)
	e.POST("/auth/request-reset", r.Auth.RequestReset, reset)
	e.POST("/auth/reset-password", r.Auth.ResetPassword, reset)
	e.POST("/auth/logout", r.Auth.Logout)
	e.GET("/auth/validate", r.Auth.ValidateSession, r.SessionAuth.RequireSession)
}
