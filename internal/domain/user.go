package domain

import "time"

// User is an account identified by email. Email is stored lowercased;
// lookups always go through the normalized form.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
