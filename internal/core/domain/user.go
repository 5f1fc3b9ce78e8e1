package domain

import "time"

// User models a registered account. The username is the identity and is
// immutable once created; Profile carries the free-form attributes collected
// at registration (name, age, address, ...).
type User struct {
	ID           string            `json:"id,omitempty"`
	Username     string            `json:"username"`
	PasswordHash string            `json:"-"`
	Profile      map[string]string `json:"profile,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
