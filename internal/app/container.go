package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/you/eventauth/domain"
	"github.com/you/eventauth/internal/config"
	"github.com/you/eventauth/internal/infrastructure/auth"
	"github.com/you/eventauth/internal/infrastructure/database"
	"github.com/you/eventauth/internal/infrastructure/notifications"
	"github.com/you/eventauth/internal/infrastructure/repositories"
	"github.com/you/eventauth/internal/services"
	"github.com/you/eventauth/internal/sweeper"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config

	DB          *gorm.DB
	RedisClient *redis.Client

	AccountRepo domain.AccountRepository
	SessionRepo domain.SessionRepository
	AuditRepo   domain.AuditRepository

	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPStore        domain.OTPStore
	SessionSvc      domain.SessionService
	AuditSvc        *services.AuditServiceImpl
	AuthSvc         domain.AuthService
	PolicySvc       domain.PolicyService

	Casbin  *auth.CasbinService
	Sweeper *sweeper.Sweeper
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	c.DB = db

	c.Casbin, err = auth.NewCasbinService(db, cfg.CasbinModelPath)
	if err != nil {
		return nil, err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		return nil, err
	}
	c.RedisClient = rdb.Client

	c.AccountRepo = repositories.NewAccountRepository(db)
	c.SessionRepo = repositories.NewSessionRepository(db)
	c.AuditRepo = repositories.NewAuditRepository(db)

	c.PasswordSvc = auth.NewPasswordService(0)
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	c.NotificationSvc = notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)

	c.OTPStore = services.NewOTPService(c.RedisClient, services.OTPConfig{
		Length:       cfg.OTP_Length,
		TTL:          cfg.OTP_TTL,
		ResendWindow: cfg.OTP_ResendWindow,
		ResetTTL:     cfg.ResetTokenTTL,
	})
	c.SessionSvc = services.NewSessionService(c.SessionRepo, cfg.SessionTTL)
	c.AuditSvc = services.NewAuditService(c.AuditRepo, cfg.AuditBufferSize)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)

	c.AuthSvc = services.NewAuthService(
		c.AccountRepo,
		c.OTPStore,
		c.PasswordSvc,
		c.TokenSvc,
		c.SessionSvc,
		c.AuditSvc,
		c.NotificationSvc,
		services.AuthConfig{
			LockoutThreshold: cfg.LockoutThreshold,
			LockoutDuration:  cfg.LockoutDuration,
		},
	)

	c.Sweeper = sweeper.New(c.SessionRepo, c.AuditRepo, sweeper.Config{
		SessionIdleTimeout: cfg.SessionIdleTimeout,
		AuditRetention:     cfg.AuditRetention,
	})

	return c, nil
}

// Close closes all connections after draining the audit buffer.
func (c *Container) Close() error {
	if c.AuditSvc != nil {
		c.AuditSvc.Close()
	}
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
