package domain

import (
	"context"
	"time"
)

// OwnerRepository defines customer/driver account data access. The role
// routes to the backing table; operating with the wrong role must never
// silently touch the other population.
type OwnerRepository interface {
	FindByID(ctx context.Context, id string, role Role) (*Owner, error)
	FindByPhone(ctx context.Context, phone string, role Role) (*Owner, error)
	FindOrCreateByPhone(ctx context.Context, phone string, role Role) (*Owner, error)
}

// OtpChallengeRepository defines OTP challenge data access.
type OtpChallengeRepository interface {
	Create(ctx context.Context, challenge *OtpChallenge) error
	// FindLatestActive returns the most recently created unverified,
	// unexpired challenge for the phone number, or ErrOTPNotFound.
	FindLatestActive(ctx context.Context, phone string, now time.Time) (*OtpChallenge, error)
	IncrementRetryCount(ctx context.Context, id string) error
	MarkVerified(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionRepository defines per-role session data access. Deletes are
// idempotent; deleting an absent session is not an error.
type SessionRepository interface {
	Create(ctx context.Context, ownerID string, role Role, secret string) (*Session, error)
	FindByID(ctx context.Context, id string, role Role) (*SessionWithOwner, error)
	// RotateCurrent installs a new current secret and retires the
	// observed one into the grace slot, extending expiry. The update is
	// conditional on the current secret still matching observed; zero
	// rows affected surfaces as ErrConcurrentRefresh.
	RotateCurrent(ctx context.Context, id string, role Role, observed, newSecret string) error
	// ConsumeGrace installs a new current secret and clears the grace
	// slot, conditional on the grace secret still matching observed.
	ConsumeGrace(ctx context.Context, id string, role Role, observed, newSecret string) error
	Delete(ctx context.Context, id string, role Role) error
	DeleteAllForOwner(ctx context.Context, ownerID string, role Role) error
	DeleteExpired(ctx context.Context, role Role, now time.Time) (int64, error)
}

// OTPService defines the OTP challenge lifecycle.
type OTPService interface {
	Send(ctx context.Context, phone string) error
	Verify(ctx context.Context, phone, code string) error
}

// TokenService defines issuance, rotation, and validation of bearer
// credentials.
type TokenService interface {
	Issue(ctx context.Context, owner *Owner, role Role, staleRefreshToken string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string, role Role) (*AuthResult, error)
	ValidateAccess(ctx context.Context, accessToken string) (*Owner, error)
	ValidateRefresh(ctx context.Context, refreshToken string, role Role) (*Owner, error)
}

// AuthService defines the inbound authentication operations.
type AuthService interface {
	SendOtp(ctx context.Context, phone string) error
	VerifyOtp(ctx context.Context, phone, code string, role Role, staleRefreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string, role Role) error
}

// TokenSigner mints and verifies signed access tokens.
type TokenSigner interface {
	Sign(owner *Owner, role Role) (string, error)
	Verify(token string) (*AccessClaims, error)
	TTL() time.Duration
}

// OTPHasher hashes OTP codes one-way and compares submissions against
// the stored hash. Injectable so tests can supply deterministic values.
type OTPHasher interface {
	Hash(code string) (string, error)
	Compare(hash, code string) bool
}

// SecretGenerator produces refresh secrets and OTP codes. Injectable
// for the same reason as OTPHasher.
type SecretGenerator interface {
	// Secret returns a high-entropy hex string (no '.' possible).
	Secret() (string, error)
	// Code returns a zero-padded 6-digit numeric OTP code.
	Code() (string, error)
}

// NotificationService delivers codes out-of-band.
type NotificationService interface {
	SendSMS(to, message string) error
}
