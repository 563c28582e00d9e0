package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// CleanupService periodically purges expired OTP challenges and
// sessions. It only relies on store-level consistency; it never
// coordinates with in-flight refresh calls, since anything it deletes
// is already past its expiry and would be rejected anyway.
type CleanupService struct {
	challenges      domain.OtpChallengeRepository
	sessions        domain.SessionRepository
	logger          *slog.Logger
	otpInterval     time.Duration
	sessionInterval time.Duration
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(
	challenges domain.OtpChallengeRepository,
	sessions domain.SessionRepository,
	logger *slog.Logger,
	otpInterval, sessionInterval time.Duration,
) *CleanupService {
	return &CleanupService{
		challenges:      challenges,
		sessions:        sessions,
		logger:          logger,
		otpInterval:     otpInterval,
		sessionInterval: sessionInterval,
	}
}

// Start runs the sweep loops until the context is cancelled.
func (s *CleanupService) Start(ctx context.Context) {
	go s.loop(ctx, s.otpInterval, s.sweepOtps)
	go s.loop(ctx, s.sessionInterval, s.sweepSessions)
}

func (s *CleanupService) loop(ctx context.Context, interval time.Duration, sweep func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx)
		}
	}
}

func (s *CleanupService) sweepOtps(ctx context.Context) {
	count, err := s.challenges.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to clean up expired otps", "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("cleaned up expired otps", "count", count)
	}
}

func (s *CleanupService) sweepSessions(ctx context.Context) {
	now := time.Now()
	for _, role := range []domain.Role{domain.RoleCustomer, domain.RoleDriver} {
		count, err := s.sessions.DeleteExpired(ctx, role, now)
		if err != nil {
			s.logger.Error("failed to clean up expired sessions", "role", string(role), "error", err)
			continue
		}
		if count > 0 {
			s.logger.Info("cleaned up expired sessions", "role", string(role), "count", count)
		}
	}
}
