package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// OTPConfig holds OTP engine tuning.
type OTPConfig struct {
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// OTPServiceImpl implements domain.OTPService. Challenges persist in
// the relational store; Redis only carries the short-lived resend
// throttle keys.
type OTPServiceImpl struct {
	challenges      domain.OtpChallengeRepository
	hasher          domain.OTPHasher
	generator       domain.SecretGenerator
	notificationSvc domain.NotificationService
	redisClient     *redis.Client
	logger          *slog.Logger
	config          OTPConfig
}

// NewOTPService creates a new OTP service
func NewOTPService(
	challenges domain.OtpChallengeRepository,
	hasher domain.OTPHasher,
	generator domain.SecretGenerator,
	notificationSvc domain.NotificationService,
	redisClient *redis.Client,
	logger *slog.Logger,
	config OTPConfig,
) domain.OTPService {
	return &OTPServiceImpl{
		challenges:      challenges,
		hasher:          hasher,
		generator:       generator,
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		logger:          logger,
		config:          config,
	}
}

// Send implements domain.OTPService. The plaintext code is delivered
// out-of-band and never stored or returned; only its hash persists.
// Outstanding challenges for the same number are left alone; verify
// always targets the most recent one.
func (s *OTPServiceImpl) Send(ctx context.Context, phone string) error {
	resendKey := "otp:res:" + phone
	if s.redisClient != nil {
		ttl, err := s.redisClient.TTL(ctx, resendKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check resend throttle: %w", err)
		}
		if ttl > 0 {
			return domain.ErrOTPThrottled
		}
	}

	code, err := s.generator.Code()
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return fmt.Errorf("failed to hash OTP code: %w", err)
	}

	challenge := &domain.OtpChallenge{
		PhoneNumber: phone,
		OtpHash:     hash,
		ExpiresAt:   time.Now().Add(s.config.TTL),
	}
	if err := s.challenges.Create(ctx, challenge); err != nil {
		return fmt.Errorf("failed to store OTP challenge: %w", err)
	}

	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, resendKey, 1, s.config.ResendWindow).Err(); err != nil {
			return fmt.Errorf("failed to set resend throttle: %w", err)
		}
	}

	message := fmt.Sprintf("Your Hello Truck verification code is: %s. Valid for %d seconds.", code, int(s.config.TTL.Seconds()))
	if err := s.notificationSvc.SendSMS(phone, message); err != nil {
		// Undelivered codes are useless; remove the challenge and the
		// throttle so the caller can retry immediately.
		_ = s.challenges.Delete(ctx, challenge.ID)
		if s.redisClient != nil {
			s.redisClient.Del(ctx, resendKey)
		}
		return fmt.Errorf("failed to send OTP SMS: %w", err)
	}

	return nil
}

// Verify implements domain.OTPService against the most recent active
// challenge. The retry ceiling is checked against the count fetched
// before this attempt's increment, so once the counter passes the
// ceiling even a correct code is rejected until a new challenge is
// created. Two racing verifies can both read the same pre-increment
// count; that race is bounded and deliberately not locked.
func (s *OTPServiceImpl) Verify(ctx context.Context, phone, code string) error {
	challenge, err := s.challenges.FindLatestActive(ctx, phone, time.Now())
	if err != nil {
		return err
	}

	if challenge.RetryCount > s.config.MaxAttempts {
		s.logger.Warn("otp retry ceiling exceeded",
			"phone_number", phone,
			"retry_count", challenge.RetryCount,
		)
		return domain.ErrOTPMaxAttempts
	}

	if !s.hasher.Compare(challenge.OtpHash, code) {
		if incErr := s.challenges.IncrementRetryCount(ctx, challenge.ID); incErr != nil {
			return fmt.Errorf("failed to increment retry count: %w", incErr)
		}
		return domain.ErrOTPInvalid
	}

	// The challenge is inert from here on; verified rows never match a
	// later lookup.
	if err := s.challenges.MarkVerified(ctx, challenge.ID); err != nil {
		return fmt.Errorf("failed to mark OTP verified: %w", err)
	}

	return nil
}

// IsThrottled reports whether a resend for the phone number would be
// rejected, and for how many more seconds.
func (s *OTPServiceImpl) IsThrottled(ctx context.Context, phone string) (bool, int64, error) {
	if s.redisClient == nil {
		return false, 0, nil
	}
	ttl, err := s.redisClient.TTL(ctx, "otp:res:"+phone).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}
	if ttl <= 0 {
		return false, 0, nil
	}
	return true, int64(ttl.Seconds()), nil
}
