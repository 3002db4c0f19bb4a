package models

import "time"

// User is the display identity of an authenticated caller. Credentials and
// sessions are owned by the identity provider; only what the admin views need
// is kept here.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"index"`
	Role      string    `json:"role" gorm:"default:'user'"` // "admin", "user"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
