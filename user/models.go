package user

import (
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/store"
)

// User roles.
const (
	RoleAdmin          = "admin"
	RoleProjectManager = "project-manager"
	RoleSuperintendent = "superintendent"
	RoleForeman        = "foreman"
	RoleUser           = "user"
)

// User models an account in users. Credentials are issued and verified
// elsewhere; only the stored hash lives here.
type User struct {
	bun.BaseModel `bun:"table:users"`
	store.Base

	Email        string  `bun:"email,notnull,unique" json:"email"`
	PasswordHash string  `bun:"password_hash,notnull" json:"-"`
	Name         string  `bun:"name,notnull" json:"name"`
	Photo        *string `bun:"photo" json:"photo,omitempty"`
	Role         string  `bun:"role,notnull" json:"role"`
	// Active defaults to true when left nil on create.
	Active *bool `bun:"active,notnull" json:"active"`
}

// IsActive reports whether the account is enabled.
func (u *User) IsActive() bool {
	return u != nil && u.Active != nil && *u.Active
}

// Patch carries the optional fields accepted by Update.
type Patch struct {
	Email        *string
	PasswordHash *string
	Name         *string
	Photo        *string
	Role         *string
	Active       *bool
}

// Apply copies every set field onto u.
func (p Patch) Apply(u *User) {
	store.Set(&u.Email, p.Email)
	store.Set(&u.PasswordHash, p.PasswordHash)
	store.Set(&u.Name, p.Name)
	store.SetPtr(&u.Photo, p.Photo)
	store.Set(&u.Role, p.Role)
	store.SetPtr(&u.Active, p.Active)
}

var columns = []string{"email", "password_hash", "name", "photo", "role", "active"}

func prepare(u *User) {
	store.Default(&u.Role, RoleUser)
	if u.Active == nil {
		active := true
		u.Active = &active
	}
}
