package model

import (
	"time"
)

// User is the owner of the watchlist. The name is shown in the page header,
// the username and password are used to log in.
// A user without a password hash exists but cannot log in until credentials
// are provisioned.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Name is the display name, unique across users
	Name string `gorm:"uniqueIndex;size:20;not null" json:"name"`
	// Username is the login identifier
	Username string `gorm:"uniqueIndex;size:191" json:"username"`
	// PasswordHash stores a PHC-formatted argon2id hash of the user's password
	PasswordHash string `json:"-"`
}

// UsersStore is the credential store
type UsersStore interface {
	// Count returns the number of users present in the store
	Count() (int64, error)
	// First returns the user with the lowest id
	First() (*User, error)
	// Get returns a user by id
	Get(id uint) (*User, error)
	// GetByUsername returns a user by username
	GetByUsername(username string) (*User, error)
	// Create creates a user; the implementation must hash the password
	Create(username, password, name string) (*User, error)
	// EnsureOwner renames the first user or creates a user without
	// credentials if the store is empty
	EnsureOwner(name string) (*User, error)
	// UpdateName changes the display name of a user
	UpdateName(id uint, name string) (*User, error)
	// SetCredentials replaces username and password of a user
	SetCredentials(id uint, username, password string) (*User, error)
	// Authenticate checks a username/password combo and returns the user
	Authenticate(username, password string) (*User, error)
}
