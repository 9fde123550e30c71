package domain

import "time"

// UserAccount is the domain model for registered buyers.
type UserAccount struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Balance      float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
