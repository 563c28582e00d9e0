package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/http/handlers"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/http/middleware"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/ws"
)

func BuildRouter(ah *handlers.AuthHandlers, gw *ws.Gateway, authmw *middleware.AuthMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	for _, role := range []domain.Role{domain.RoleCustomer, domain.RoleDriver} {
		g := r.Group("/auth/" + string(role))
		g.POST("/send-otp", ah.SendOTP(role))
		g.POST("/verify-otp", ah.VerifyOTP(role))
		g.POST("/refresh-token", ah.RefreshToken(role))
		g.POST("/logout", ah.Logout(role))
	}

	r.GET("/ws/auth/:role", gin.WrapH(gw))

	v := r.Group("/").Use(authmw.WithBearer())
	v.GET("/auth/me", ah.Me)

	return r
}
