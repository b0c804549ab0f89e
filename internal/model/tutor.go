package model

import "time"

// Tutor is teaching staff registered by an admin. Email is unique across
// every institution.
type Tutor struct {
	ID            int64     `json:"tutor_id"       db:"tutor_id"`
	InstitutionID int64     `json:"institution_id" db:"institution_id"`
	FirstName     string    `json:"first_name"     db:"first_name"`
	LastName      string    `json:"last_name"      db:"last_name"`
	Email         string    `json:"tutor_email"    db:"tutor_email"`
	PasswordHash  string    `json:"-"              db:"password_hash"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`
}
