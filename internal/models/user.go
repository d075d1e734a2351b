package models

import (
	"strings"
	"time"
)

// Gender is stored as a free-form short code by the identity service.
type Gender string

// User is owned by the identity service. The content core only reads it to
// resolve author and commenter display names.
type User struct {
	Entity

	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	ProfileImageURL *string    `json:"profile_image_url,omitempty"`
	Biography       *string    `json:"biography,omitempty"`
	BirthDate       *time.Time `json:"birth_date,omitempty"`
	Gender          *Gender    `json:"gender,omitempty"`
	LastLoginDate   *time.Time `json:"last_login_date,omitempty"`
	IsActive        bool       `json:"is_active"`
}

// FullName joins first and last name, dropping whichever is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}
