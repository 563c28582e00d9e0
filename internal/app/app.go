package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/config"
	httpx "github.com/E-m-i-n-e-n-c-e/hello-truck/internal/http"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/http/handlers"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/http/middleware"
	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/ws"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RedisClient.Ping(context.Background()); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.CleanupSvc.Start(ctx)

	authH := handlers.NewAuthHandlers(c.AuthSvc, c.TokenSvc)
	gateway := ws.NewGateway(c.TokenSvc, c.Logger)
	authMW := middleware.NewAuthMW(c.TokenSvc)

	r := httpx.BuildRouter(authH, gateway, authMW)

	addr := ":" + cfg.Port
	c.Logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, r)
}
