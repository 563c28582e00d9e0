package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// AuthMW wraps the token service for bearer authentication
type AuthMW struct {
	tokenSvc domain.TokenService
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService) *AuthMW {
	return &AuthMW{tokenSvc: tokenSvc}
}

// WithBearer validates the Authorization header's access token and puts
// the resolved owner on the context.
func (mw *AuthMW) WithBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		owner, err := mw.tokenSvc.ValidateAccess(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired access token"})
			return
		}

		c.Set("owner", owner)
		c.Next()
	}
}
