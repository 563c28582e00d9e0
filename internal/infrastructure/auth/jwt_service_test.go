package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

func testJWTOwner() *domain.Owner {
	return &domain.Owner{ID: "owner-1", PhoneNumber: "+15550001111", Name: "Asha"}
}

func TestJWTService_SignAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", "hello-truck", 15*time.Minute)

	token, err := svc.Sign(testJWTOwner(), domain.RoleCustomer)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.OwnerID)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, "+15550001111", claims.PhoneNumber)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
	assert.Greater(t, claims.ExpiresAt, claims.IssuedAt)
}

func TestJWTService_Verify_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", "hello-truck", -time.Minute)

	token, err := svc.Sign(testJWTOwner(), domain.RoleDriver)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTService_Verify_WrongKey(t *testing.T) {
	signer := NewJWTService("test-secret", "hello-truck", 15*time.Minute)
	verifier := NewJWTService("other-secret", "hello-truck", 15*time.Minute)

	token, err := signer.Sign(testJWTOwner(), domain.RoleCustomer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTService_Verify_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", "hello-truck", 15*time.Minute)

	for _, token := range []string{"", "not.a.jwt", "a.b"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	}
}

func TestJWTService_TTL(t *testing.T) {
	svc := NewJWTService("test-secret", "hello-truck", 42*time.Minute)
	assert.Equal(t, 42*time.Minute, svc.TTL())
}
