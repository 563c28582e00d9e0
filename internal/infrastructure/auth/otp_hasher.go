package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// BcryptOTPHasher implements domain.OTPHasher. bcrypt comparison is
// constant-time, so a submitted code never leaks hash prefix timing.
type BcryptOTPHasher struct {
	cost int
}

// NewOTPHasher creates a new bcrypt-backed OTP hasher
func NewOTPHasher() domain.OTPHasher {
	return &BcryptOTPHasher{cost: bcrypt.DefaultCost}
}

// Hash implements domain.OTPHasher
func (h *BcryptOTPHasher) Hash(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Compare implements domain.OTPHasher
func (h *BcryptOTPHasher) Compare(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
