package app

import (
	"log/slog"
	"os"

	"gorm.io/gorm"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/config"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/infrastructure/auth"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/infrastructure/database"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/infrastructure/notifications"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/infrastructure/repositories"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *database.RedisClient

	// Repositories
	OwnerRepo   domain.OwnerRepository
	SessionRepo domain.SessionRepository
	OtpRepo     domain.OtpChallengeRepository

	// Services
	SignerSvc       domain.TokenSigner
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	TokenSvc        domain.TokenService
	AuthSvc         domain.AuthService
	CleanupSvc      *services.CleanupService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initRedis()
	c.initRepositories()
	c.initServices()

	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
}

func (c *Container) initRepositories() {
	c.OwnerRepo = repositories.NewOwnerRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.DB, c.Config.SessionTTL)
	c.OtpRepo = repositories.NewOtpChallengeRepository(c.DB)
}

func (c *Container) initServices() {
	c.SignerSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.AccessTTL)
	c.NotificationSvc = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
	)

	secrets := auth.NewSecretGenerator()

	c.OTPSvc = services.NewOTPService(
		c.OtpRepo,
		auth.NewOTPHasher(),
		secrets,
		c.NotificationSvc,
		c.RedisClient.Client,
		c.Logger,
		services.OTPConfig{
			TTL:          c.Config.OTP_TTL,
			MaxAttempts:  c.Config.OTP_MaxAttempts,
			ResendWindow: c.Config.OTP_ResendWindow,
		},
	)

	c.TokenSvc = services.NewTokenService(c.SessionRepo, c.OwnerRepo, c.SignerSvc, secrets, c.Logger)
	c.AuthSvc = services.NewAuthService(c.OwnerRepo, c.SessionRepo, c.OTPSvc, c.TokenSvc)
	c.CleanupSvc = services.NewCleanupService(
		c.OtpRepo,
		c.SessionRepo,
		c.Logger,
		c.Config.CleanupOTPInterval,
		c.Config.CleanupSessionInterval,
	)
}

// Close closes all connections
func (c *Container) Close() error {
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
