package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// AuthHandlers maps inbound authentication requests onto the auth and
// token services. Routes are registered once per role; the role tag is
// bound at registration time, never read from the request body.
type AuthHandlers struct {
	authSvc  domain.AuthService
	tokenSvc domain.TokenService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, tokenSvc domain.TokenService) *AuthHandlers {
	return &AuthHandlers{
		authSvc:  authSvc,
		tokenSvc: tokenSvc,
	}
}

// SendOtpRequest represents an OTP send request
type SendOtpRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// VerifyOtpRequest represents an OTP verification request. The optional
// refresh token is the client's stale credential from a previous login,
// cleaned up on re-issue.
type VerifyOtpRequest struct {
	PhoneNumber  string `json:"phoneNumber" binding:"required"`
	Otp          string `json:"otp" binding:"required"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// RefreshRequest represents a token refresh or logout request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// SendOTP handles OTP generation and delivery for one role.
func (h *AuthHandlers) SendOTP(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendOtpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := h.authSvc.SendOtp(c.Request.Context(), req.PhoneNumber); err != nil {
			if errors.Is(err, domain.ErrOTPThrottled) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting a new OTP"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "OTP sent successfully",
		})
	}
}

// VerifyOTP handles OTP verification and credential issuance for one
// role.
func (h *AuthHandlers) VerifyOTP(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyOtpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := h.authSvc.VerifyOtp(c.Request.Context(), req.PhoneNumber, req.Otp, role, req.RefreshToken)
		if err != nil {
			respondAuthError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"accessToken":  result.AccessToken,
			"refreshToken": result.RefreshToken,
			"expiresIn":    result.ExpiresIn,
		})
	}
}

// RefreshToken handles refresh-token rotation for one role.
func (h *AuthHandlers) RefreshToken(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := h.tokenSvc.Refresh(c.Request.Context(), req.RefreshToken, role)
		if err != nil {
			respondAuthError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"accessToken":  result.AccessToken,
			"refreshToken": result.RefreshToken,
			"expiresIn":    result.ExpiresIn,
		})
	}
}

// Logout handles refresh-token invalidation for one role.
func (h *AuthHandlers) Logout(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := h.authSvc.Logout(c.Request.Context(), req.RefreshToken, role); err != nil {
			respondAuthError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// Me returns the owner resolved by the bearer middleware.
func (h *AuthHandlers) Me(c *gin.Context) {
	value, exists := c.Get("owner")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	owner := value.(*domain.Owner)

	c.JSON(http.StatusOK, gin.H{
		"id":          owner.ID,
		"phoneNumber": owner.PhoneNumber,
		"name":        owner.Name,
		"createdAt":   owner.CreatedAt,
	})
}

// respondAuthError maps domain sentinels to HTTP statuses. Replayed
// tokens get the same unauthorized response as expired ones on purpose.
func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTokenMalformed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed refresh token"})
	case errors.Is(err, domain.ErrOTPMaxAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, please request a new OTP"})
	case errors.Is(err, domain.ErrOTPThrottled):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting a new OTP"})
	case errors.Is(err, domain.ErrOTPNotFound), errors.Is(err, domain.ErrOTPInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired OTP"})
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrSessionRevoked), errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
	case errors.Is(err, domain.ErrConcurrentRefresh):
		c.JSON(http.StatusConflict, gin.H{"error": "Concurrent refresh detected, please retry"})
	case errors.Is(err, domain.ErrOwnerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
	}
}
