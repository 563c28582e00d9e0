package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// TokenServiceImpl implements domain.TokenService, the refresh-token
// state machine. At refresh time a session is observed in one of three
// states: the submitted secret matches the current token (normal
// rotation), matches the previous token (a client that missed the
// response to its last rotation, honored exactly once), or matches
// neither (a forked or stolen credential; the whole session is
// revoked, not just the one call).
type TokenServiceImpl struct {
	sessions domain.SessionRepository
	owners   domain.OwnerRepository
	signer   domain.TokenSigner
	secrets  domain.SecretGenerator
	logger   *slog.Logger
}

// NewTokenService creates a new token service
func NewTokenService(
	sessions domain.SessionRepository,
	owners domain.OwnerRepository,
	signer domain.TokenSigner,
	secrets domain.SecretGenerator,
	logger *slog.Logger,
) domain.TokenService {
	return &TokenServiceImpl{
		sessions: sessions,
		owners:   owners,
		signer:   signer,
		secrets:  secrets,
		logger:   logger,
	}
}

// Issue implements domain.TokenService. Used at login: if the client
// supplied a stale refresh token (re-login flow), its session is
// deleted best-effort first so orphaned rows don't pile up.
func (s *TokenServiceImpl) Issue(ctx context.Context, owner *domain.Owner, role domain.Role, staleRefreshToken string) (*domain.AuthResult, error) {
	if staleRefreshToken != "" {
		if stale, err := domain.ParseRefreshToken(staleRefreshToken); err == nil {
			if err := s.sessions.Delete(ctx, stale.SessionID, role); err != nil {
				s.logger.Debug("stale session cleanup failed",
					"session_id", stale.SessionID,
					"role", string(role),
					"error", err,
				)
			}
		}
	}

	secret, err := s.secrets.Secret()
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Create(ctx, owner.ID, role, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.signer.Sign(owner, role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &domain.AuthResult{
		Owner:        owner,
		AccessToken:  accessToken,
		RefreshToken: domain.RefreshToken{SessionID: session.ID, Secret: secret}.String(),
		ExpiresIn:    int64(s.signer.TTL().Seconds()),
	}, nil
}

// Refresh implements domain.TokenService
func (s *TokenServiceImpl) Refresh(ctx context.Context, refreshToken string, role domain.Role) (*domain.AuthResult, error) {
	parsed, err := domain.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.FindByID(ctx, parsed.SessionID, role)
	if err != nil {
		return nil, err
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrSessionExpired
	}

	newSecret, err := s.secrets.Secret()
	if err != nil {
		return nil, err
	}

	switch {
	case parsed.Secret == session.Token:
		// Normal rotation: the retired secret becomes the one-shot
		// fallback and expiry slides forward.
		if err := s.sessions.RotateCurrent(ctx, parsed.SessionID, role, parsed.Secret, newSecret); err != nil {
			return nil, err
		}
	case session.OldToken != "" && parsed.Secret == session.OldToken:
		if err := s.sessions.ConsumeGrace(ctx, parsed.SessionID, role, parsed.Secret, newSecret); err != nil {
			return nil, err
		}
	default:
		return nil, s.terminate(ctx, session, role)
	}

	accessToken, err := s.signer.Sign(session.Owner, role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &domain.AuthResult{
		Owner:        session.Owner,
		AccessToken:  accessToken,
		RefreshToken: domain.RefreshToken{SessionID: parsed.SessionID, Secret: newSecret}.String(),
		ExpiresIn:    int64(s.signer.TTL().Seconds()),
	}, nil
}

// ValidateAccess implements domain.TokenService
func (s *TokenServiceImpl) ValidateAccess(ctx context.Context, accessToken string) (*domain.Owner, error) {
	claims, err := s.signer.Verify(accessToken)
	if err != nil {
		return nil, err
	}
	return s.owners.FindByID(ctx, claims.OwnerID, claims.Role)
}

// ValidateRefresh implements domain.TokenService. Read-only except for
// the breach branch, which still revokes the session. Used by entry
// points that authenticate without rotating, like the websocket
// handshake.
func (s *TokenServiceImpl) ValidateRefresh(ctx context.Context, refreshToken string, role domain.Role) (*domain.Owner, error) {
	parsed, err := domain.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.FindByID(ctx, parsed.SessionID, role)
	if err != nil {
		return nil, err
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrSessionExpired
	}

	if parsed.Secret != session.Token && (session.OldToken == "" || parsed.Secret != session.OldToken) {
		return nil, s.terminate(ctx, session, role)
	}

	return session.Owner, nil
}

// terminate is the breach response: the session is deleted durably
// before the error is returned. The caller sees the same unauthorized
// class as an ordinary expiry so replay detection is not signaled to
// an attacker; the distinction lives in the log.
func (s *TokenServiceImpl) terminate(ctx context.Context, session *domain.SessionWithOwner, role domain.Role) error {
	if err := s.sessions.Delete(ctx, session.ID, role); err != nil {
		return fmt.Errorf("failed to terminate session: %w", err)
	}
	s.logger.Warn("refresh token replay detected, session terminated",
		"security_event", "session_terminated",
		"session_id", session.ID,
		"owner_id", session.OwnerID,
		"role", string(role),
	)
	return domain.ErrSessionRevoked
}
