package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

const (
	writeTimeout = 5 * time.Second
	readIdle     = 2 * time.Minute
)

// Gateway is the websocket entrypoint for persistent-connection
// clients. The handshake authenticates with a refresh token without
// rotating it; a later refresh-token message rotates through the token
// engine and pushes the fresh pair back over the socket.
type Gateway struct {
	tokenSvc domain.TokenService
	logger   *slog.Logger
}

// NewGateway constructs a websocket auth gateway.
func NewGateway(tokenSvc domain.TokenService, logger *slog.Logger) *Gateway {
	return &Gateway{tokenSvc: tokenSvc, logger: logger}
}

type clientMessage struct {
	Type         string `json:"type"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type serverMessage struct {
	Type         string `json:"type"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Message      string `json:"message,omitempty"`
}

// ServeHTTP upgrades the connection and authenticates the handshake.
// The role comes from the final path segment (/ws/auth/:role); the
// token from the token query parameter.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	role, err := domain.ParseRole(r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
	if err != nil {
		http.Error(w, "unknown role", http.StatusNotFound)
		return
	}

	refreshToken := r.URL.Query().Get("token")
	if refreshToken == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	// Authenticate before upgrading; a replayed token terminates the
	// session here exactly as it would on the refresh endpoint.
	owner, err := g.tokenSvc.ValidateRefresh(r.Context(), refreshToken, role)
	if err != nil {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		g.logger.Debug("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	g.logger.Info("websocket client authenticated",
		"owner_id", owner.ID,
		"role", string(role),
	)

	g.serve(r.Context(), conn, role)
}

func (g *Gateway) serve(ctx context.Context, conn *websocket.Conn, role domain.Role) {
	for {
		readCtx, cancel := context.WithTimeout(ctx, readIdle)
		var msg clientMessage
		err := readJSON(readCtx, conn, &msg)
		cancel()
		if err != nil {
			conn.Close(websocket.StatusNormalClosure, "bye")
			return
		}

		switch msg.Type {
		case "refresh-token":
			result, err := g.tokenSvc.Refresh(ctx, msg.RefreshToken, role)
			if err != nil {
				g.writeJSON(ctx, conn, serverMessage{Type: "auth-error", Message: "Invalid refresh token"})
				g.writeJSON(ctx, conn, serverMessage{Type: "force-logout"})
				conn.Close(websocket.StatusPolicyViolation, "unauthenticated")
				return
			}
			g.writeJSON(ctx, conn, serverMessage{
				Type:         "access-token",
				AccessToken:  result.AccessToken,
				RefreshToken: result.RefreshToken,
			})
		default:
			g.writeJSON(ctx, conn, serverMessage{Type: "auth-error", Message: "Unknown message type"})
		}
	}
}

func readJSON(ctx context.Context, conn *websocket.Conn, v any) error {
	_, data, err := conn.Read(ctx)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (g *Gateway) writeJSON(ctx context.Context, conn *websocket.Conn, msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		g.logger.Debug("websocket write failed", "error", err)
	}
}
