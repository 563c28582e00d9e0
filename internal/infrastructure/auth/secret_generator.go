package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

const refreshSecretBytes = 64

// CryptoSecretGenerator implements domain.SecretGenerator with
// crypto/rand. Refresh secrets are hex-encoded so they cannot contain
// the composite-token delimiter.
type CryptoSecretGenerator struct{}

// NewSecretGenerator creates a new crypto/rand-backed generator
func NewSecretGenerator() domain.SecretGenerator {
	return &CryptoSecretGenerator{}
}

// Secret implements domain.SecretGenerator
func (g *CryptoSecretGenerator) Secret() (string, error) {
	bytes := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate refresh secret: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Code implements domain.SecretGenerator, returning a cryptographically
// secure 6-digit OTP code with leading zeros preserved.
func (g *CryptoSecretGenerator) Code() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
