package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/mocks"
)

func TestCleanupService_SweepsBothStores(t *testing.T) {
	otpSwept := make(chan struct{}, 1)
	challenges := mocks.NewMockOtpChallengeRepository()
	challenges.DeleteExpiredFunc = func(ctx context.Context, now time.Time) (int64, error) {
		select {
		case otpSwept <- struct{}{}:
		default:
		}
		return 3, nil
	}

	sessionRoles := make(chan domain.Role, 8)
	sessions := mocks.NewMockSessionRepository()
	sessions.DeleteExpiredFunc = func(ctx context.Context, role domain.Role, now time.Time) (int64, error) {
		select {
		case sessionRoles <- role:
		default:
		}
		return 1, nil
	}

	svc := NewCleanupService(challenges, sessions, testLogger(), 5*time.Millisecond, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	waitFor := func(name string, ch <-chan struct{}) {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("%s sweep never ran", name)
		}
	}
	waitFor("otp", otpSwept)

	seen := map[domain.Role]bool{}
	deadline := time.After(2 * time.Second)
	for !seen[domain.RoleCustomer] || !seen[domain.RoleDriver] {
		select {
		case role := <-sessionRoles:
			seen[role] = true
		case <-deadline:
			t.Fatalf("session sweep missed a role, saw %v", seen)
		}
	}
}

func TestCleanupService_StopsOnCancel(t *testing.T) {
	calls := make(chan struct{}, 64)
	challenges := mocks.NewMockOtpChallengeRepository()
	challenges.DeleteExpiredFunc = func(ctx context.Context, now time.Time) (int64, error) {
		select {
		case calls <- struct{}{}:
		default:
		}
		return 0, nil
	}

	svc := NewCleanupService(challenges, mocks.NewMockSessionRepository(), testLogger(),
		5*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep never ran")
	}

	cancel()
	time.Sleep(20 * time.Millisecond)
	drain := len(calls)
	for i := 0; i < drain; i++ {
		<-calls
	}

	// No further sweeps after cancellation.
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, calls)
}
