package domain

import "time"

// Role enumerates privilege levels, ordered Manager > Technician > Reporter.
type Role string

const (
	RoleManager    Role = "MANAGER"
	RoleTechnician Role = "TECHNICIAN"
	RoleReporter   Role = "REPORTER"
)

// User is the domain model for portal accounts. Accounts are created at seed
// time; there is no self-service edit or deletion path.
type User struct {
	ID        int64
	Username  string
	Email     string // empty means the user receives no notifications
	Role      Role
	CreatedAt time.Time
}
