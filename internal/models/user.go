package models

import "time"

// User is created on first login with a verified identity-provider email.
// The email doubles as the opaque user identifier across the service.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	Name           string    `db:"name" json:"name"`
	ProfilePicture string    `db:"profile_picture" json:"profilePicture"`
	GoogleUser     bool      `db:"google_user" json:"googleUser"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
