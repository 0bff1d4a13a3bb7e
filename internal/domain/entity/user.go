package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
)

// User representa un usuario del sistema. Para el ledger es solo el actor de cada transacción.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // bcrypt hash
	PhoneNumber  string
	Role         string // ADMIN, MANAGER
	CreatedAt    time.Time
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager
}
