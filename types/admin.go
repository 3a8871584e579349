package types

import "time"

// Admin is a moderator credential record. Admins are provisioned
// out-of-band (seed or CLI); the public API never creates them.
type Admin struct {
	// ID is the unique identifier of the admin.
	ID string `json:"id" db:"id"`

	// Email is the unique login email.
	Email string `json:"email" db:"email"`

	// Name is the admin's display name.
	Name string `json:"name" db:"name"`

	// PasswordHash stores the bcrypt hash of the admin's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the admin was provisioned.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AdminProfile is the minimal admin identity returned after login.
type AdminProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Profile returns the public identity of the admin.
func (a Admin) Profile() AdminProfile {
	return AdminProfile{ID: a.ID, Email: a.Email, Name: a.Name}
}
