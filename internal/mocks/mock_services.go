package mocks

import (
	"context"
	"time"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// MockOTPService implements domain.OTPService for testing
type MockOTPService struct {
	SendFunc   func(ctx context.Context, phone string) error
	VerifyFunc func(ctx context.Context, phone, code string) error
}

func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) Send(ctx context.Context, phone string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phone)
	}
	return nil
}

func (m *MockOTPService) Verify(ctx context.Context, phone, code string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, phone, code)
	}
	return nil
}

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	IssueFunc           func(ctx context.Context, owner *domain.Owner, role domain.Role, staleRefreshToken string) (*domain.AuthResult, error)
	RefreshFunc         func(ctx context.Context, refreshToken string, role domain.Role) (*domain.AuthResult, error)
	ValidateAccessFunc  func(ctx context.Context, accessToken string) (*domain.Owner, error)
	ValidateRefreshFunc func(ctx context.Context, refreshToken string, role domain.Role) (*domain.Owner, error)
}

func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Issue(ctx context.Context, owner *domain.Owner, role domain.Role, staleRefreshToken string) (*domain.AuthResult, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, owner, role, staleRefreshToken)
	}
	return &domain.AuthResult{AccessToken: "access", RefreshToken: "session-1.secret", ExpiresIn: 900}, nil
}

func (m *MockTokenService) Refresh(ctx context.Context, refreshToken string, role domain.Role) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken, role)
	}
	return &domain.AuthResult{AccessToken: "access", RefreshToken: "session-1.rotated", ExpiresIn: 900}, nil
}

func (m *MockTokenService) ValidateAccess(ctx context.Context, accessToken string) (*domain.Owner, error) {
	if m.ValidateAccessFunc != nil {
		return m.ValidateAccessFunc(ctx, accessToken)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenService) ValidateRefresh(ctx context.Context, refreshToken string, role domain.Role) (*domain.Owner, error) {
	if m.ValidateRefreshFunc != nil {
		return m.ValidateRefreshFunc(ctx, refreshToken, role)
	}
	return nil, domain.ErrSessionNotFound
}

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	SendOtpFunc   func(ctx context.Context, phone string) error
	VerifyOtpFunc func(ctx context.Context, phone, code string, role domain.Role, staleRefreshToken string) (*domain.AuthResult, error)
	LogoutFunc    func(ctx context.Context, refreshToken string, role domain.Role) error
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) SendOtp(ctx context.Context, phone string) error {
	if m.SendOtpFunc != nil {
		return m.SendOtpFunc(ctx, phone)
	}
	return nil
}

func (m *MockAuthService) VerifyOtp(ctx context.Context, phone, code string, role domain.Role, staleRefreshToken string) (*domain.AuthResult, error) {
	if m.VerifyOtpFunc != nil {
		return m.VerifyOtpFunc(ctx, phone, code, role, staleRefreshToken)
	}
	return &domain.AuthResult{AccessToken: "access", RefreshToken: "session-1.secret", ExpiresIn: 900}, nil
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string, role domain.Role) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, refreshToken, role)
	}
	return nil
}

// MockTokenSigner implements domain.TokenSigner for testing
type MockTokenSigner struct {
	SignFunc   func(owner *domain.Owner, role domain.Role) (string, error)
	VerifyFunc func(token string) (*domain.AccessClaims, error)
	TTLFunc    func() time.Duration
}

func NewMockTokenSigner() *MockTokenSigner {
	return &MockTokenSigner{}
}

func (m *MockTokenSigner) Sign(owner *domain.Owner, role domain.Role) (string, error) {
	if m.SignFunc != nil {
		return m.SignFunc(owner, role)
	}
	return "signed-access-token", nil
}

func (m *MockTokenSigner) Verify(token string) (*domain.AccessClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenSigner) TTL() time.Duration {
	if m.TTLFunc != nil {
		return m.TTLFunc()
	}
	return 15 * time.Minute
}

// MockOTPHasher implements domain.OTPHasher for testing. The default
// behavior is a reversible fake: Hash prefixes the code, Compare checks
// the prefix. Tests that need bcrypt semantics use the real hasher.
type MockOTPHasher struct {
	HashFunc    func(code string) (string, error)
	CompareFunc func(hash, code string) bool
}

func NewMockOTPHasher() *MockOTPHasher {
	return &MockOTPHasher{}
}

func (m *MockOTPHasher) Hash(code string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(code)
	}
	return "hashed:" + code, nil
}

func (m *MockOTPHasher) Compare(hash, code string) bool {
	if m.CompareFunc != nil {
		return m.CompareFunc(hash, code)
	}
	return hash == "hashed:"+code
}

// MockSecretGenerator implements domain.SecretGenerator for testing
type MockSecretGenerator struct {
	SecretFunc func() (string, error)
	CodeFunc   func() (string, error)
}

func NewMockSecretGenerator() *MockSecretGenerator {
	return &MockSecretGenerator{}
}

func (m *MockSecretGenerator) Secret() (string, error) {
	if m.SecretFunc != nil {
		return m.SecretFunc()
	}
	return "deadbeef", nil
}

func (m *MockSecretGenerator) Code() (string, error) {
	if m.CodeFunc != nil {
		return m.CodeFunc()
	}
	return "123456", nil
}

// MockNotificationService implements domain.NotificationService for
// testing and records every message it was asked to deliver.
type MockNotificationService struct {
	SendSMSFunc func(to, message string) error

	Sent []SentSMS
}

type SentSMS struct {
	To      string
	Message string
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	m.Sent = append(m.Sent, SentSMS{To: to, Message: message})
	return nil
}
