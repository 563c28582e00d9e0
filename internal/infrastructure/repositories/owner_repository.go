package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// OwnerRepositoryImpl implements domain.OwnerRepository using GORM over
// the per-role customers/drivers tables.
type OwnerRepositoryImpl struct {
	db *gorm.DB
}

// NewOwnerRepository creates a new owner repository
func NewOwnerRepository(db *gorm.DB) domain.OwnerRepository {
	return &OwnerRepositoryImpl{db: db}
}

// FindByID implements domain.OwnerRepository
func (r *OwnerRepositoryImpl) FindByID(ctx context.Context, id string, role domain.Role) (*domain.Owner, error) {
	table, err := ownerTable(role)
	if err != nil {
		return nil, err
	}

	var row DBOwner
	err = r.db.WithContext(ctx).Table(table).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, err
	}
	return ownerToDomain(&row), nil
}

// FindByPhone implements domain.OwnerRepository
func (r *OwnerRepositoryImpl) FindByPhone(ctx context.Context, phone string, role domain.Role) (*domain.Owner, error) {
	table, err := ownerTable(role)
	if err != nil {
		return nil, err
	}

	var row DBOwner
	err = r.db.WithContext(ctx).Table(table).Where("phone_number = ?", phone).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, err
	}
	return ownerToDomain(&row), nil
}

// FindOrCreateByPhone implements domain.OwnerRepository. Owners are
// created lazily on first successful OTP verification; a concurrent
// insert for the same phone number loses the unique-constraint race
// and falls back to reading the winner's row.
func (r *OwnerRepositoryImpl) FindOrCreateByPhone(ctx context.Context, phone string, role domain.Role) (*domain.Owner, error) {
	owner, err := r.FindByPhone(ctx, phone, role)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, domain.ErrOwnerNotFound) {
		return nil, err
	}

	table, terr := ownerTable(role)
	if terr != nil {
		return nil, terr
	}

	now := time.Now()
	row := &DBOwner{
		ID:          uuid.NewString(),
		PhoneNumber: phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = r.db.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "phone_number"}}, DoNothing: true}).
		Create(row).Error
	if err != nil {
		return nil, err
	}

	// Re-read in case the insert was skipped by the conflict clause.
	return r.FindByPhone(ctx, phone, role)
}

// ownerToDomain converts a database row to a domain owner
func ownerToDomain(row *DBOwner) *domain.Owner {
	return &domain.Owner{
		ID:          row.ID,
		PhoneNumber: row.PhoneNumber,
		Name:        row.Name,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
