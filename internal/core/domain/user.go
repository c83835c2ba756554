package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the declared role of a platform user.
type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// User is the snapshot of a platform user attached to a live connection.
// It is resolved once at handshake time and never refreshed afterwards.
type User struct {
	ID        uuid.UUID
	FullName  string
	Email     string
	Role      Role
	CompanyID *uuid.UUID
	CreatedAt time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// WorksFor reports whether the user is associated with the given company.
func (u *User) WorksFor(companyID uuid.UUID) bool {
	return u.CompanyID != nil && *u.CompanyID == companyID
}
