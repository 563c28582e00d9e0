package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// JWTServiceImpl implements domain.TokenSigner. Access tokens are
// stateless: validity is purely signature plus expiry, independent of
// session record survival.
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	accessTTL time.Duration
}

// NewJWTService creates a new JWT signer
func NewJWTService(secretKey, issuer string, accessTTL time.Duration) domain.TokenSigner {
	return &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		accessTTL: accessTTL,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Sign implements domain.TokenSigner
func (j *JWTServiceImpl) Sign(owner *domain.Owner, role domain.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"owner_id":     owner.ID,
		"name":         owner.Name,
		"phone_number": owner.PhoneNumber,
		"role":         string(role),
		"iss":          j.issuer,
		"iat":          now.Unix(),
		"exp":          now.Add(j.accessTTL).Unix(),
		"jti":          j.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// Verify implements domain.TokenSigner
func (j *JWTServiceImpl) Verify(tokenString string) (*domain.AccessClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return j.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	ownerID, ok := claims["owner_id"].(string)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	result := &domain.AccessClaims{
		OwnerID:   ownerID,
		Role:      role,
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}
	if name, ok := claims["name"].(string); ok {
		result.Name = name
	}
	if phone, ok := claims["phone_number"].(string); ok {
		result.PhoneNumber = phone
	}
	return result, nil
}

// TTL implements domain.TokenSigner
func (j *JWTServiceImpl) TTL() time.Duration {
	return j.accessTTL
}
