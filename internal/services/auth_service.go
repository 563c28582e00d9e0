package services

import (
	"context"
	"fmt"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	owners   domain.OwnerRepository
	sessions domain.SessionRepository
	otpSvc   domain.OTPService
	tokenSvc domain.TokenService
}

// NewAuthService creates a new auth service
func NewAuthService(
	owners domain.OwnerRepository,
	sessions domain.SessionRepository,
	otpSvc domain.OTPService,
	tokenSvc domain.TokenService,
) domain.AuthService {
	return &AuthServiceImpl{
		owners:   owners,
		sessions: sessions,
		otpSvc:   otpSvc,
		tokenSvc: tokenSvc,
	}
}

// SendOtp implements domain.AuthService
func (s *AuthServiceImpl) SendOtp(ctx context.Context, phone string) error {
	return s.otpSvc.Send(ctx, phone)
}

// VerifyOtp implements domain.AuthService. A first-time phone number
// gets its owner account created here, after the code checks out.
func (s *AuthServiceImpl) VerifyOtp(ctx context.Context, phone, code string, role domain.Role, staleRefreshToken string) (*domain.AuthResult, error) {
	if err := s.otpSvc.Verify(ctx, phone, code); err != nil {
		return nil, err
	}

	owner, err := s.owners.FindOrCreateByPhone(ctx, phone, role)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	return s.tokenSvc.Issue(ctx, owner, role, staleRefreshToken)
}

// Logout implements domain.AuthService. Deleting an already-absent
// session succeeds; logout is idempotent.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string, role domain.Role) error {
	parsed, err := domain.ParseRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	return s.sessions.Delete(ctx, parsed.SessionID, role)
}
