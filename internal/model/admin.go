package model

import "time"

// Admin mirrors the `superadmins` table. PasswordHash never leaves the
// service layer.
type Admin struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
