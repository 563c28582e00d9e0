package domain

import "time"

// Role selects which user population an operation targets. Sessions and
// owners for the two roles live in physically separate tables, so every
// store operation needs the role as routing information.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
)

// ParseRole validates a role string from the boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleDriver:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Owner is a customer or driver account. Owners are created lazily on
// the first successful OTP verification for an unseen phone number.
type Owner struct {
	ID          string
	PhoneNumber string
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OtpChallenge is a single one-time-passcode challenge. Only the bcrypt
// hash of the code is stored. Multiple outstanding challenges per phone
// number may exist; verification always targets the most recent active
// one.
type OtpChallenge struct {
	ID          string
	PhoneNumber string
	OtpHash     string
	ExpiresAt   time.Time
	Verified    bool
	RetryCount  int
	CreatedAt   time.Time
}

// Session holds the rotating refresh secrets for one device login.
// Token is the most recently issued secret; OldToken, when non-empty,
// is the immediately prior secret and is honored for exactly one more
// rotation.
type Session struct {
	ID        string
	OwnerID   string
	Token     string
	OldToken  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionWithOwner is a session joined with its owning account.
type SessionWithOwner struct {
	Session
	Owner *Owner
}

// AuthResult is the outcome of a successful login or refresh.
type AuthResult struct {
	Owner        *Owner
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AccessClaims are the verified claims of an access token.
type AccessClaims struct {
	OwnerID     string
	Name        string
	PhoneNumber string
	Role        Role
	IssuedAt    int64
	ExpiresAt   int64
}
