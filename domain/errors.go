package domain

import "errors"

// OTP errors
var (
	ErrOTPNotFound    = errors.New("no active otp challenge")
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPMaxAttempts = errors.New("too many otp attempts")
	ErrOTPThrottled   = errors.New("otp resend throttled")
)

// Token errors
var (
	ErrTokenMalformed = errors.New("malformed refresh token")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
)

// Session errors
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session has expired")
	ErrSessionRevoked    = errors.New("session terminated")
	ErrConcurrentRefresh = errors.New("concurrent token refresh detected")
)

// Owner errors
var (
	ErrOwnerNotFound = errors.New("owner not found")
	ErrUnknownRole   = errors.New("unknown role")
)
