package domain

import "time"

// Admin is a platform operator account for the reporting/control API.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
