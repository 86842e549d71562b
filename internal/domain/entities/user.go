package entities

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleStaff   UserRole = "staff"
	UserRoleManager UserRole = "manager"
	UserRoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleStaff, UserRoleManager, UserRoleAdmin:
		return true
	default:
		return false
	}
}

// DefaultHourlyWage is substituted when a user has no wage rate configured,
// in currency units per 60 minutes.
const DefaultHourlyWage = 1100.0

// User is a staff member or manager attached to one store.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	DisplayName  string     `json:"display_name" db:"display_name"`
	Role         UserRole   `json:"role" db:"role"`
	StoreID      int        `json:"store_id" db:"store_id"`
	HourlyWage   *float64   `json:"hourly_wage" db:"hourly_wage"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" db:"deleted_at"`
}

// ResolvedHourlyWage returns the configured rate or the documented default.
func (u *User) ResolvedHourlyWage() float64 {
	if u.HourlyWage != nil {
		return *u.HourlyWage
	}
	return DefaultHourlyWage
}

// CanReviewShifts reports whether the user may approve or reject shifts.
func (u *User) CanReviewShifts() bool {
	return u.IsActive && (u.Role == UserRoleManager || u.Role == UserRoleAdmin)
}
