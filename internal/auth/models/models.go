package models

import "time"

// Role gates the administrative surface. Both roles see the whole badge API;
// the split exists for auditing, mirroring the operator accounts.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleService Role = "service"
)

// User is an operator account. Passwords are stored as bcrypt hashes only.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is one server-side login session. The cookie token references it by
// ID; deleting the session invalidates the cookie regardless of its expiry.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Device    string    `json:"device"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
