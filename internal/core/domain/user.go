package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleSales = "sales"
	RoleOther = "other"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrSelfDelete = errors.New("cannot delete your own account")
var ErrInvalidRole = errors.New("invalid role")

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleSales || role == RoleOther
}

// User models an account in the CRM. NotificationPreferences maps a
// preference key to whether the user wants that kind of notification; an
// absent key means the preference is enabled.
type User struct {
	ID                      string          `json:"id"`
	Name                    string          `json:"name"`
	Email                   string          `json:"email"`
	PasswordHash            string          `json:"-"`
	Role                    string          `json:"role"`
	NotificationPreferences map[string]bool `json:"notification_preferences,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// WantsNotification reports whether the user has the given preference key
// enabled. Preferences are opt-out.
func (u *User) WantsNotification(key string) bool {
	if u.NotificationPreferences == nil {
		return true
	}
	enabled, ok := u.NotificationPreferences[key]
	if !ok {
		return true
	}
	return enabled
}
