package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// Rooms are named broadcast groups. They have no stored lifecycle: a room
// exists while at least one connection is a member. The key format is shared
// with the frontend clients, so it must stay stable.

// UserRoom is the personal room every connection of a user joins.
func UserRoom(userID uuid.UUID) string {
	return "user_" + userID.String()
}

// RoleRoom groups all connections of users holding the same role.
func RoleRoom(role Role) string {
	return "role_" + string(role)
}

// CompanyRoom groups all connections of a company's recruiters.
func CompanyRoom(companyID uuid.UUID) string {
	return "company_" + companyID.String()
}

// JobRoom is an opt-in room for watching a single job posting.
func JobRoom(jobID int64) string {
	return "job_" + strconv.FormatInt(jobID, 10)
}

// DefaultRooms returns the rooms a connection is assigned at connect time:
// the personal room, the role room, and the company room iff the user has
// an associated company.
func DefaultRooms(u *User) []string {
	rooms := []string{UserRoom(u.ID), RoleRoom(u.Role)}
	if u.CompanyID != nil {
		rooms = append(rooms, CompanyRoom(*u.CompanyID))
	}
	return rooms
}
