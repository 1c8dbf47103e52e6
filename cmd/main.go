package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"bookshelf/api/handler"
	apiMiddleware "bookshelf/api/middleware"
	"bookshelf/api/routes"
	"bookshelf/config"
	"bookshelf/internal/ratelimit"
	"bookshelf/internal/repository"
	"bookshelf/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("configuration")
	}

	db, err := config.OpenDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("database")
	}
	if err := config.Migrate(db); err != nil {
		logger.WithError(err).Fatal("migrate")
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	verificationRepo := repository.NewVerificationTokenRepository(db)
	resetRepo := repository.NewResetTokenRepository(db)
	securityRepo := repository.NewSecurityLogRepository(db)

	clock := service.RealClock{}
	hasher := service.BcryptPasswordHasher{Cost: cfg.BcryptCost}

	var emailSender service.EmailSender
	if cfg.ResendAPIKey != "" {
		emailSender = service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppBaseURL)
	} else {
		logger.Warn("RESEND_API_KEY not set, email delivery disabled")
	}

	verifications := service.NewVerificationManager(verificationRepo, clock, cfg.VerificationTokenTTL)
	resets := service.NewPasswordResetManager(resetRepo, hasher, clock, cfg.ResetTokenTTL)
	sessions := service.NewSessionManager(sessionRepo, userRepo, clock, cfg.SessionTTL)

	authService := service.NewAuthService(
		userRepo,
		verifications,
		resets,
		sessions,
		securityRepo,
		emailSender,
		hasher,
		logger,
	)

	var counterStore ratelimit.CounterStore
	if cfg.RedisAddr != "" {
		counterStore = ratelimit.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		logger.WithField("addr", cfg.RedisAddr).Info("rate limiting backed by redis")
	} else {
		counterStore = ratelimit.NewMemoryStore()
	}
	limiter := ratelimit.NewLimiter(counterStore, map[ratelimit.Class]ratelimit.Quota{
		ratelimit.ClassAuth:  {Limit: cfg.AuthRateLimit, Window: cfg.AuthRateWindow},
		ratelimit.ClassEmail: {Limit: cfg.EmailRateLimit, Window: cfg.EmailRateWindow},
		ratelimit.ClassReset: {Limit: cfg.ResetRateLimit, Window: cfg.ResetRateWindow},
	}, logger)

	authHandler := handler.NewAuthHandler(authService, validator.New())
	sessionAuth := apiMiddleware.SessionAuth{Auth: authService}

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	router := routes.NewRouter(app, authHandler, sessionAuth, limiter)
	router.RegisterRoutes()

	go sweepExpired(context.Background(), logger, cfg.CleanupInterval,
		sessionRepo, verificationRepo, resetRepo)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// sweepExpired periodically clears expired sessions and tokens. Pure
// storage hygiene; every read path filters on expiry regardless.
func sweepExpired(
	ctx context.Context,
	logger *logrus.Logger,
	interval time.Duration,
	sessions repository.SessionRepository,
	verifications repository.VerificationTokenRepository,
	resets repository.ResetTokenRepository,
) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.DeleteExpired(ctx); err != nil {
				logger.WithError(err).Warn("sweep sessions")
			}
			if err := verifications.DeleteExpired(ctx); err != nil {
				logger.WithError(err).Warn("sweep verification tokens")
			}
			if err := resets.DeleteExpired(ctx); err != nil {
				logger.WithError(err).Warn("sweep reset tokens")
			}
		}
	}
}
