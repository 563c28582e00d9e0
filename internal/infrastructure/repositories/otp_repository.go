package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// OtpChallengeRepositoryImpl implements domain.OtpChallengeRepository
// using GORM.
type OtpChallengeRepositoryImpl struct {
	db *gorm.DB
}

// NewOtpChallengeRepository creates a new OTP challenge repository
func NewOtpChallengeRepository(db *gorm.DB) domain.OtpChallengeRepository {
	return &OtpChallengeRepositoryImpl{db: db}
}

// Create implements domain.OtpChallengeRepository
func (r *OtpChallengeRepositoryImpl) Create(ctx context.Context, challenge *domain.OtpChallenge) error {
	if challenge.ID == "" {
		challenge.ID = uuid.NewString()
	}
	if challenge.CreatedAt.IsZero() {
		challenge.CreatedAt = time.Now()
	}
	row := &DBOtpChallenge{
		ID:          challenge.ID,
		PhoneNumber: challenge.PhoneNumber,
		OtpHash:     challenge.OtpHash,
		ExpiresAt:   challenge.ExpiresAt,
		Verified:    challenge.Verified,
		RetryCount:  challenge.RetryCount,
		CreatedAt:   challenge.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// FindLatestActive implements domain.OtpChallengeRepository.
// Verification always targets the most recently created unverified,
// unexpired challenge; verified rows are inert and never match again.
func (r *OtpChallengeRepositoryImpl) FindLatestActive(ctx context.Context, phone string, now time.Time) (*domain.OtpChallenge, error) {
	var row DBOtpChallenge
	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND verified = ? AND expires_at > ?", phone, false, now).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}
	return otpToDomain(&row), nil
}

// IncrementRetryCount implements domain.OtpChallengeRepository with an
// atomic in-database increment; concurrent failed attempts never lose
// counts, though both may have read the same pre-increment value.
func (r *OtpChallengeRepositoryImpl) IncrementRetryCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&DBOtpChallenge{}).
		Where("id = ?", id).
		Update("retry_count", gorm.Expr("retry_count + 1")).Error
}

// MarkVerified implements domain.OtpChallengeRepository
func (r *OtpChallengeRepositoryImpl) MarkVerified(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&DBOtpChallenge{}).
		Where("id = ?", id).
		Update("verified", true).Error
}

// Delete implements domain.OtpChallengeRepository
func (r *OtpChallengeRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&DBOtpChallenge{}).Error
}

// DeleteExpired implements domain.OtpChallengeRepository
func (r *OtpChallengeRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&DBOtpChallenge{})
	return result.RowsAffected, result.Error
}

// otpToDomain converts a database row to a domain challenge
func otpToDomain(row *DBOtpChallenge) *domain.OtpChallenge {
	return &domain.OtpChallenge{
		ID:          row.ID,
		PhoneNumber: row.PhoneNumber,
		OtpHash:     row.OtpHash,
		ExpiresAt:   row.ExpiresAt,
		Verified:    row.Verified,
		RetryCount:  row.RetryCount,
		CreatedAt:   row.CreatedAt,
	}
}
