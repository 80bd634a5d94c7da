// Package auth handles admin account login for the console.
package auth

import "time"

// Admin is a console administrator account.
type Admin struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
}
