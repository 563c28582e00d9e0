package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM
// over the per-role customer_sessions/driver_sessions tables.
//
// Rotation uses conditional updates keyed on the secret observed at
// read time; a refresh that lost the race affects zero rows and
// surfaces as ErrConcurrentRefresh instead of silently overwriting the
// winner's secret.
type SessionRepositoryImpl struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB, ttl time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db, ttl: ttl}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, ownerID string, role domain.Role, secret string) (*domain.Session, error) {
	table, err := sessionTable(role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	row := &DBSession{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Token:     secret,
		ExpiresAt: now.Add(r.ttl),
		CreatedAt: now,
	}
	if err := r.db.WithContext(ctx).Table(table).Create(row).Error; err != nil {
		return nil, err
	}
	return sessionToDomain(row), nil
}

// FindByID implements domain.SessionRepository, joining in the owner
// record from the matching owner table.
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, id string, role domain.Role) (*domain.SessionWithOwner, error) {
	table, err := sessionTable(role)
	if err != nil {
		return nil, err
	}
	owners, err := ownerTable(role)
	if err != nil {
		return nil, err
	}

	var row DBSession
	err = r.db.WithContext(ctx).Table(table).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var ownerRow DBOwner
	err = r.db.WithContext(ctx).Table(owners).Where("id = ?", row.OwnerID).First(&ownerRow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Orphaned session; treat the same as absent.
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return &domain.SessionWithOwner{
		Session: *sessionToDomain(&row),
		Owner:   ownerToDomain(&ownerRow),
	}, nil
}

// RotateCurrent implements domain.SessionRepository. The just-retired
// current secret becomes the one-shot grace secret and expiry slides
// forward.
func (r *SessionRepositoryImpl) RotateCurrent(ctx context.Context, id string, role domain.Role, observed, newSecret string) error {
	table, err := sessionTable(role)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Table(table).
		Where("id = ? AND token = ?", id, observed).
		Updates(map[string]any{
			"token":      newSecret,
			"old_token":  observed,
			"expires_at": time.Now().Add(r.ttl),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConcurrentRefresh
	}
	return nil
}

// ConsumeGrace implements domain.SessionRepository. The grace secret is
// single-use: consuming it installs a new current secret and clears the
// grace slot in the same conditional write.
func (r *SessionRepositoryImpl) ConsumeGrace(ctx context.Context, id string, role domain.Role, observed, newSecret string) error {
	table, err := sessionTable(role)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Table(table).
		Where("id = ? AND old_token = ?", id, observed).
		Updates(map[string]any{
			"token":     newSecret,
			"old_token": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConcurrentRefresh
	}
	return nil
}

// Delete implements domain.SessionRepository. Deleting an absent
// session is not an error.
func (r *SessionRepositoryImpl) Delete(ctx context.Context, id string, role domain.Role) error {
	table, err := sessionTable(role)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Table(table).Where("id = ?", id).Delete(&DBSession{}).Error
}

// DeleteAllForOwner implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteAllForOwner(ctx context.Context, ownerID string, role domain.Role) error {
	table, err := sessionTable(role)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Table(table).Where("owner_id = ?", ownerID).Delete(&DBSession{}).Error
}

// DeleteExpired implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context, role domain.Role, now time.Time) (int64, error) {
	table, err := sessionTable(role)
	if err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Table(table).Where("expires_at < ?", now).Delete(&DBSession{})
	return result.RowsAffected, result.Error
}

// sessionToDomain converts a database row to a domain session
func sessionToDomain(row *DBSession) *domain.Session {
	session := &domain.Session{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Token:     row.Token,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}
	if row.OldToken != nil {
		session.OldToken = *row.OldToken
	}
	return session
}
