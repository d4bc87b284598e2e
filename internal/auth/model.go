package auth

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// DefaultAdminUsername is created when no admin account exists.
const DefaultAdminUsername = "admin"

var (
	ErrMissingFields      = errors.New("username and password are required")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrLastAdmin          = errors.New("cannot remove the last active admin")
	ErrUserNotFound       = errors.New("user not found")
)

// User is the domain entity.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	IsAdmin      bool       `json:"is_admin"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleStaff
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func unixPtr(sec *int64) *time.Time {
	if sec == nil {
		return nil
	}
	t := unixTime(*sec)
	return &t
}
