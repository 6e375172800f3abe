// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

// Role values are stored as uppercase strings to match the enum in the
// users table check constraint.
const (
	RoleAdmin       = "ADMIN"
	RolePartnerUser = "PARTNER_USER"
	RoleBankUser    = "BANK_USER"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RolePartnerUser, RoleBankUser:
		return true
	}
	return false
}

// User is a locally provisioned account backed by an external identity
// provider. Auth0ID is the provider subject and the upsert key; there is
// no local credential storage.
type User struct {
	ID          int64      `db:"id"`
	Auth0ID     string     `db:"auth0_id"`
	Email       string     `db:"email"`
	Name        string     `db:"name"`
	Picture     *string    `db:"picture"`
	Role        string     `db:"role"`
	LastLoginAt *time.Time `db:"last_login_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
