package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/domain"
)

// The customer and driver populations live in physically separate but
// isomorphic tables. Rather than duplicating repository methods per
// role, a single row shape is routed to the right table by these
// dispatch maps; an unknown role fails before any query runs.

var ownerTables = map[domain.Role]string{
	domain.RoleCustomer: "customers",
	domain.RoleDriver:   "drivers",
}

var sessionTables = map[domain.Role]string{
	domain.RoleCustomer: "customer_sessions",
	domain.RoleDriver:   "driver_sessions",
}

func ownerTable(role domain.Role) (string, error) {
	table, ok := ownerTables[role]
	if !ok {
		return "", domain.ErrUnknownRole
	}
	return table, nil
}

func sessionTable(role domain.Role) (string, error) {
	table, ok := sessionTables[role]
	if !ok {
		return "", domain.ErrUnknownRole
	}
	return table, nil
}

// DBOwner is the row shape of the customers and drivers tables.
type DBOwner struct {
	ID          string `gorm:"primaryKey;size:36"`
	PhoneNumber string `gorm:"uniqueIndex;size:32;not null"`
	Name        string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DBSession is the row shape of the customer_sessions and
// driver_sessions tables. OwnerID references the owner table matching
// the session table; a session row has no meaning without its owner.
type DBSession struct {
	ID        string  `gorm:"primaryKey;size:36"`
	OwnerID   string  `gorm:"index;size:36;not null"`
	Token     string  `gorm:"size:160;not null"`
	OldToken  *string `gorm:"size:160"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// DBOtpChallenge is the row shape of the otp_challenges table. OTP
// challenges are keyed by phone number only; no owner foreign key.
type DBOtpChallenge struct {
	ID          string `gorm:"primaryKey;size:36"`
	PhoneNumber string `gorm:"index;size:32;not null"`
	OtpHash     string `gorm:"size:128;not null"`
	ExpiresAt   time.Time
	Verified    bool `gorm:"default:false"`
	RetryCount  int  `gorm:"default:0"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (DBOtpChallenge) TableName() string {
	return "otp_challenges"
}

// Migrate creates all auth tables, instantiating the shared row shapes
// once per role.
func Migrate(db *gorm.DB) error {
	for _, table := range ownerTables {
		if err := db.Table(table).AutoMigrate(&DBOwner{}); err != nil {
			return err
		}
	}
	for _, table := range sessionTables {
		if err := db.Table(table).AutoMigrate(&DBSession{}); err != nil {
			return err
		}
	}
	return db.AutoMigrate(&DBOtpChallenge{})
}
