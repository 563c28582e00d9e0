package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/mocks"
)

func testOwner() *domain.Owner {
	return &domain.Owner{ID: "owner-1", PhoneNumber: "+15550001111", Name: "Asha"}
}

// fakeSessionState backs the session repository mock with a single
// mutable session so a test can walk the rotation state machine the way
// the store would.
type fakeSessionState struct {
	id       string
	token    string
	oldToken string
	expires  time.Time
	deleted  bool
}

func newFakeSessionRepo(state *fakeSessionState) *mocks.MockSessionRepository {
	repo := mocks.NewMockSessionRepository()
	repo.FindByIDFunc = func(ctx context.Context, id string, role domain.Role) (*domain.SessionWithOwner, error) {
		if state.deleted || id != state.id {
			return nil, domain.ErrSessionNotFound
		}
		return &domain.SessionWithOwner{
			Session: domain.Session{
				ID:        state.id,
				OwnerID:   "owner-1",
				Token:     state.token,
				OldToken:  state.oldToken,
				ExpiresAt: state.expires,
			},
			Owner: testOwner(),
		}, nil
	}
	repo.RotateCurrentFunc = func(ctx context.Context, id string, role domain.Role, observed, newSecret string) error {
		if state.deleted || state.token != observed {
			return domain.ErrConcurrentRefresh
		}
		state.oldToken = state.token
		state.token = newSecret
		state.expires = time.Now().Add(30 * 24 * time.Hour)
		return nil
	}
	repo.ConsumeGraceFunc = func(ctx context.Context, id string, role domain.Role, observed, newSecret string) error {
		if state.deleted || state.oldToken != observed {
			return domain.ErrConcurrentRefresh
		}
		state.token = newSecret
		state.oldToken = ""
		return nil
	}
	repo.DeleteFunc = func(ctx context.Context, id string, role domain.Role) error {
		state.deleted = true
		return nil
	}
	return repo
}

func sequencedSecrets(secrets ...string) *mocks.MockSecretGenerator {
	gen := mocks.NewMockSecretGenerator()
	i := 0
	gen.SecretFunc = func() (string, error) {
		s := secrets[i%len(secrets)]
		i++
		return s, nil
	}
	return gen
}

func TestTokenService_Issue(t *testing.T) {
	sessions := mocks.NewMockSessionRepository()
	var createdSecret string
	sessions.CreateFunc = func(ctx context.Context, ownerID string, role domain.Role, secret string) (*domain.Session, error) {
		createdSecret = secret
		return &domain.Session{ID: "session-1", OwnerID: ownerID, Token: secret}, nil
	}

	svc := NewTokenService(sessions, mocks.NewMockOwnerRepository(), mocks.NewMockTokenSigner(),
		sequencedSecrets("s3cr3t"), testLogger())

	result, err := svc.Issue(context.Background(), testOwner(), domain.RoleCustomer, "")
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", createdSecret)
	assert.Equal(t, "signed-access-token", result.AccessToken)
	assert.Equal(t, "session-1.s3cr3t", result.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), result.ExpiresIn)
}

func TestTokenService_Issue_DeletesStaleSession(t *testing.T) {
	sessions := mocks.NewMockSessionRepository()
	var deletedID string
	sessions.DeleteFunc = func(ctx context.Context, id string, role domain.Role) error {
		deletedID = id
		return nil
	}

	svc := NewTokenService(sessions, mocks.NewMockOwnerRepository(), mocks.NewMockTokenSigner(),
		sequencedSecrets("fresh"), testLogger())

	_, err := svc.Issue(context.Background(), testOwner(), domain.RoleDriver, "stale-session.oldsecret")
	require.NoError(t, err)
	assert.Equal(t, "stale-session", deletedID)
}

func TestTokenService_Issue_IgnoresMalformedStaleToken(t *testing.T) {
	sessions := mocks.NewMockSessionRepository()
	deleteCalled := false
	sessions.DeleteFunc = func(ctx context.Context, id string, role domain.Role) error {
		deleteCalled = true
		return nil
	}

	svc := NewTokenService(sessions, mocks.NewMockOwnerRepository(), mocks.NewMockTokenSigner(),
		sequencedSecrets("fresh"), testLogger())

	_, err := svc.Issue(context.Background(), testOwner(), domain.RoleCustomer, "garbage-without-delimiter")
	require.NoError(t, err)
	assert.False(t, deleteCalled)
}

// TestTokenService_RotationLifecycle walks a session through normal
// rotation, a one-shot grace replay, and finally a breach:
//
//	refresh(A) -> token B, A honored once more
//	refresh(A) -> grace consumed, token C
//	refresh(A) -> neither current nor previous, session revoked
func TestTokenService_RotationLifecycle(t *testing.T) {
	state := &fakeSessionState{
		id:      "session-1",
		token:   "A",
		expires: time.Now().Add(24 * time.Hour),
	}
	sessions := newFakeSessionRepo(state)

	svc := NewTokenService(sessions, mocks.NewMockOwnerRepository(), mocks.NewMockTokenSigner(),
		sequencedSecrets("B", "C", "D"), testLogger())
	ctx := context.Background()

	result, err := svc.Refresh(ctx, "session-1.A", domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, "session-1.B", result.RefreshToken)
	assert.Equal(t, "B", state.token)
	assert.Equal(t, "A", state.oldToken)

	// The superseded secret works exactly once.
	result, err = svc.Refresh(ctx, "session-1.A", domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, "session-1.C", result.RefreshToken)
	assert.Equal(t, "C", state.token)
	assert.Empty(t, state.oldToken)

	// Replaying it again matches neither secret and revokes the session.
	_, err = svc.Refresh(ctx, "session-1.A", domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
	assert.True(t, state.deleted)

	// Even the latest legitimate secret is dead after revocation.
	_, err = svc.Refresh(ctx, "session-1.C", domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestTokenService_Refresh_Errors(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		session *domain.SessionWithOwner
		findErr error
		wantErr error
	}{
		{
			name:    "malformed token",
			token:   "no-delimiter",
			wantErr: domain.ErrTokenMalformed,
		},
		{
			name:    "unknown session",
			token:   "session-1.A",
			findErr: domain.ErrSessionNotFound,
			wantErr: domain.ErrSessionNotFound,
		},
		{
			name:  "expired session",
			token: "session-1.A",
			session: &domain.SessionWithOwner{
				Session: domain.Session{ID: "session-1", Token: "A", ExpiresAt: time.Now().Add(-time.Hour)},
				Owner:   testOwner(),
			},
			wantErr: domain.ErrSessionExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := mocks.NewMockSessionRepository()
			sessions.FindByIDFunc = func(ctx context.Context, id string, role domain.Role) (*domain.SessionWithOwner, error) {
				if tt.findErr != nil {
					return nil, tt.findErr
				}
				return tt.session, nil
			}

			svc := NewTokenService(sessions, mocks.NewMockOwnerRepository(), mocks.NewMockTokenSigner(),
				sequencedSecrets("B"), testLogger())

			_, err := svc.Refresh(context.Background(), tt.token, domain.RoleCustomer)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenService_Refresh_ConcurrentRotationLoses(t *testing.T) {
	sessions := mocks.NewMockSessionRepository()
	sessions.FindByIDFunc = func(ctx context.Context, id string, role domain.Role) (*domain.SessionWithOwner, error) {
		return &domain.SessionWithOwner{
			Session: domain.Session{ID: "session-1", Token: "A", ExpiresAt: time.Now().Add(time.Hour)},
			Owner:   testOwner(),
		}, nil
	}
	// Another request rotated between the read and the conditional
	// update; zero rows matched.
	sessions.RotateCurrentFunc = func(ctx context.Context, id string, role domain.Role, observed, newSecret string) error {
		return domain.ErrConcurrentRefresh
	}

	svc := NewTokenService(sessions, mocks.NewMockOwnerRepository(), mocks.NewMockTokenSigner(),
		sequencedSecrets("B"), testLogger())

	_, err := svc.Refresh(context.Background(), "session-1.A", domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrConcurrentRefresh)
}

func TestTokenService_ValidateAccess(t *testing.T) {
	signer := mocks.NewMockTokenSigner()
	signer.VerifyFunc = func(token string) (*domain.AccessClaims, error) {
		if token != "valid-token" {
			return nil, domain.ErrTokenInvalid
		}
		return &domain.AccessClaims{OwnerID: "owner-1", Role: domain.RoleCustomer}, nil
	}
	owners := mocks.NewMockOwnerRepository()
	owners.FindByIDFunc = func(ctx context.Context, id string, role domain.Role) (*domain.Owner, error) {
		require.Equal(t, "owner-1", id)
		require.Equal(t, domain.RoleCustomer, role)
		return testOwner(), nil
	}

	svc := NewTokenService(mocks.NewMockSessionRepository(), owners, signer,
		sequencedSecrets("B"), testLogger())

	owner, err := svc.ValidateAccess(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", owner.ID)

	_, err = svc.ValidateAccess(context.Background(), "bogus")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenService_ValidateRefresh(t *testing.T) {
	state := &fakeSessionState{
		id:       "session-1",
		token:    "B",
		oldToken: "A",
		expires:  time.Now().Add(time.Hour),
	}
	sessions := newFakeSessionRepo(state)

	svc := NewTokenService(sessions, mocks.NewMockOwnerRepository(), mocks.NewMockTokenSigner(),
		sequencedSecrets("C"), testLogger())
	ctx := context.Background()

	// Both the current and the previous secret authenticate, and neither
	// mutates the session.
	for _, secret := range []string{"B", "A"} {
		owner, err := svc.ValidateRefresh(ctx, fmt.Sprintf("session-1.%s", secret), domain.RoleDriver)
		require.NoError(t, err)
		assert.Equal(t, "owner-1", owner.ID)
	}
	assert.Equal(t, "B", state.token)
	assert.Equal(t, "A", state.oldToken)

	// An unrecognized secret is a breach even on the read-only path.
	_, err := svc.ValidateRefresh(ctx, "session-1.Z", domain.RoleDriver)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
	assert.True(t, state.deleted)
}
