// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Email is stored lowercase and is unique.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}
