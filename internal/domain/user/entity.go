package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID           string    // ID is the unique identifier for the user
	Name         string    // Name is the display name of the user
	Email        string    // Email is the unique, normalized email address of the user
	PasswordHash string    // PasswordHash is the bcrypt hash of the user's password
	CreatedAt    time.Time // CreatedAt is when the user signed up
}
