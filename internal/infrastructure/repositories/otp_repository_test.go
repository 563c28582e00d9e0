package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

func activeOtp(phone, hash string, createdAt time.Time) *domain.OtpChallenge {
	return &domain.OtpChallenge{
		PhoneNumber: phone,
		OtpHash:     hash,
		ExpiresAt:   createdAt.Add(30 * time.Second),
		CreatedAt:   createdAt,
	}
}

func TestOtpRepository_FindLatestActive_PicksMostRecent(t *testing.T) {
	repo := NewOtpChallengeRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	older := activeOtp("+15550001111", "hash-old", now.Add(-10*time.Second))
	newer := activeOtp("+15550001111", "hash-new", now)
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	found, err := repo.FindLatestActive(ctx, "+15550001111", now)
	require.NoError(t, err)
	assert.Equal(t, "hash-new", found.OtpHash)
}

func TestOtpRepository_FindLatestActive_SkipsVerifiedAndExpired(t *testing.T) {
	repo := NewOtpChallengeRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	verified := activeOtp("+15550001111", "hash-verified", now)
	verified.Verified = true
	require.NoError(t, repo.Create(ctx, verified))

	expired := activeOtp("+15550001111", "hash-expired", now.Add(-5*time.Minute))
	require.NoError(t, repo.Create(ctx, expired))

	_, err := repo.FindLatestActive(ctx, "+15550001111", now)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOtpRepository_FindLatestActive_ScopedToPhone(t *testing.T) {
	repo := NewOtpChallengeRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, activeOtp("+15550001111", "hash-a", now)))

	_, err := repo.FindLatestActive(ctx, "+15550002222", now)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOtpRepository_IncrementRetryCount(t *testing.T) {
	repo := NewOtpChallengeRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	challenge := activeOtp("+15550001111", "hash-a", now)
	require.NoError(t, repo.Create(ctx, challenge))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementRetryCount(ctx, challenge.ID))
	}

	found, err := repo.FindLatestActive(ctx, "+15550001111", now)
	require.NoError(t, err)
	assert.Equal(t, 3, found.RetryCount)
}

func TestOtpRepository_MarkVerified(t *testing.T) {
	repo := NewOtpChallengeRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	challenge := activeOtp("+15550001111", "hash-a", now)
	require.NoError(t, repo.Create(ctx, challenge))
	require.NoError(t, repo.MarkVerified(ctx, challenge.ID))

	// Verified challenges are inert; the lookup no longer sees them.
	_, err := repo.FindLatestActive(ctx, "+15550001111", now)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOtpRepository_DeleteExpired(t *testing.T) {
	repo := NewOtpChallengeRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, activeOtp("+15550001111", "hash-live", now)))
	require.NoError(t, repo.Create(ctx, activeOtp("+15550002222", "hash-dead", now.Add(-5*time.Minute))))

	count, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The live challenge survives the sweep.
	found, err := repo.FindLatestActive(ctx, "+15550001111", now)
	require.NoError(t, err)
	assert.Equal(t, "hash-live", found.OtpHash)
}
