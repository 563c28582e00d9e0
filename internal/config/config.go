package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	Issuer    string `yaml:"issuer"`
	AccessTTL string `yaml:"access_ttl"`
}

type SessionConfig struct {
	TTL string `yaml:"ttl"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CleanupConfig struct {
	OTPInterval     string `yaml:"otp_interval"`
	SessionInterval string `yaml:"session_interval"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Session  SessionConfig  `yaml:"session"`
	OTP      OTPConfig      `yaml:"otp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
}

type Config struct {
	Port                   string
	GinMode                string
	DSN                    string
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	JWTSecret              string
	JWTIssuer              string
	AccessTTL              time.Duration
	SessionTTL             time.Duration
	OTP_TTL                time.Duration
	OTP_MaxAttempts        int
	OTP_ResendWindow       time.Duration
	TwilioSID              string
	TwilioToken            string
	TwilioFrom             string
	CleanupOTPInterval     time.Duration
	CleanupSessionInterval time.Duration
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	sessTTL, err := time.ParseDuration(configFile.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(configFile.OTP.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}

	otpSweep, err := time.ParseDuration(configFile.Cleanup.OTPInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP cleanup interval: %w", err)
	}

	sessSweep, err := time.ParseDuration(configFile.Cleanup.SessionInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid session cleanup interval: %w", err)
	}

	return &Config{
		Port:                   fmt.Sprintf("%d", configFile.App.Port),
		GinMode:                configFile.App.GinMode,
		DSN:                    env("DATABASE_URL", configFile.Database.DSN),
		RedisAddr:              env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:          env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:                configFile.Redis.DB,
		JWTSecret:              env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:              configFile.JWT.Issuer,
		AccessTTL:              accTTL,
		SessionTTL:             sessTTL,
		OTP_TTL:                otpTTL,
		OTP_MaxAttempts:        configFile.OTP.MaxAttempts,
		OTP_ResendWindow:       resWnd,
		TwilioSID:              env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:            env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:             env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
		CleanupOTPInterval:     otpSweep,
		CleanupSessionInterval: sessSweep,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
