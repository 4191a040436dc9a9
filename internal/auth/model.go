package auth

import "time"

// Portal roles. Managers run branches; admins run the portal.
const (
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

// User is the domain entity.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
}
