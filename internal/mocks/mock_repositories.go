package mocks

import (
	"context"
	"time"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// MockOwnerRepository implements domain.OwnerRepository for testing
type MockOwnerRepository struct {
	FindByIDFunc            func(ctx context.Context, id string, role domain.Role) (*domain.Owner, error)
	FindByPhoneFunc         func(ctx context.Context, phone string, role domain.Role) (*domain.Owner, error)
	FindOrCreateByPhoneFunc func(ctx context.Context, phone string, role domain.Role) (*domain.Owner, error)
}

func NewMockOwnerRepository() *MockOwnerRepository {
	return &MockOwnerRepository{}
}

func (m *MockOwnerRepository) FindByID(ctx context.Context, id string, role domain.Role) (*domain.Owner, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id, role)
	}
	return nil, domain.ErrOwnerNotFound
}

func (m *MockOwnerRepository) FindByPhone(ctx context.Context, phone string, role domain.Role) (*domain.Owner, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone, role)
	}
	return nil, domain.ErrOwnerNotFound
}

func (m *MockOwnerRepository) FindOrCreateByPhone(ctx context.Context, phone string, role domain.Role) (*domain.Owner, error) {
	if m.FindOrCreateByPhoneFunc != nil {
		return m.FindOrCreateByPhoneFunc(ctx, phone, role)
	}
	return &domain.Owner{ID: "owner-1", PhoneNumber: phone}, nil
}

// MockSessionRepository implements domain.SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc            func(ctx context.Context, ownerID string, role domain.Role, secret string) (*domain.Session, error)
	FindByIDFunc          func(ctx context.Context, id string, role domain.Role) (*domain.SessionWithOwner, error)
	RotateCurrentFunc     func(ctx context.Context, id string, role domain.Role, observed, newSecret string) error
	ConsumeGraceFunc      func(ctx context.Context, id string, role domain.Role, observed, newSecret string) error
	DeleteFunc            func(ctx context.Context, id string, role domain.Role) error
	DeleteAllForOwnerFunc func(ctx context.Context, ownerID string, role domain.Role) error
	DeleteExpiredFunc     func(ctx context.Context, role domain.Role, now time.Time) (int64, error)
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) Create(ctx context.Context, ownerID string, role domain.Role, secret string) (*domain.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, role, secret)
	}
	return &domain.Session{
		ID:        "session-1",
		OwnerID:   ownerID,
		Token:     secret,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		CreatedAt: time.Now(),
	}, nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id string, role domain.Role) (*domain.SessionWithOwner, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id, role)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) RotateCurrent(ctx context.Context, id string, role domain.Role, observed, newSecret string) error {
	if m.RotateCurrentFunc != nil {
		return m.RotateCurrentFunc(ctx, id, role, observed, newSecret)
	}
	return nil
}

func (m *MockSessionRepository) ConsumeGrace(ctx context.Context, id string, role domain.Role, observed, newSecret string) error {
	if m.ConsumeGraceFunc != nil {
		return m.ConsumeGraceFunc(ctx, id, role, observed, newSecret)
	}
	return nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string, role domain.Role) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, role)
	}
	return nil
}

func (m *MockSessionRepository) DeleteAllForOwner(ctx context.Context, ownerID string, role domain.Role) error {
	if m.DeleteAllForOwnerFunc != nil {
		return m.DeleteAllForOwnerFunc(ctx, ownerID, role)
	}
	return nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, role domain.Role, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, role, now)
	}
	return 0, nil
}

// MockOtpChallengeRepository implements domain.OtpChallengeRepository
// for testing
type MockOtpChallengeRepository struct {
	CreateFunc              func(ctx context.Context, challenge *domain.OtpChallenge) error
	FindLatestActiveFunc    func(ctx context.Context, phone string, now time.Time) (*domain.OtpChallenge, error)
	IncrementRetryCountFunc func(ctx context.Context, id string) error
	MarkVerifiedFunc        func(ctx context.Context, id string) error
	DeleteFunc              func(ctx context.Context, id string) error
	DeleteExpiredFunc       func(ctx context.Context, now time.Time) (int64, error)
}

func NewMockOtpChallengeRepository() *MockOtpChallengeRepository {
	return &MockOtpChallengeRepository{}
}

func (m *MockOtpChallengeRepository) Create(ctx context.Context, challenge *domain.OtpChallenge) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, challenge)
	}
	return nil
}

func (m *MockOtpChallengeRepository) FindLatestActive(ctx context.Context, phone string, now time.Time) (*domain.OtpChallenge, error) {
	if m.FindLatestActiveFunc != nil {
		return m.FindLatestActiveFunc(ctx, phone, now)
	}
	return nil, domain.ErrOTPNotFound
}

func (m *MockOtpChallengeRepository) IncrementRetryCount(ctx context.Context, id string) error {
	if m.IncrementRetryCountFunc != nil {
		return m.IncrementRetryCountFunc(ctx, id)
	}
	return nil
}

func (m *MockOtpChallengeRepository) MarkVerified(ctx context.Context, id string) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(ctx, id)
	}
	return nil
}

func (m *MockOtpChallengeRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockOtpChallengeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, now)
	}
	return 0, nil
}
