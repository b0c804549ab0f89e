package model

import "time"

// Student is a learner enrolled by an admin. Email is unique within an
// institution.
type Student struct {
	ID            int64     `json:"student_id"     db:"student_id"`
	InstitutionID int64     `json:"institution_id" db:"institution_id"`
	FirstName     string    `json:"first_name"     db:"first_name"`
	LastName      string    `json:"last_name"      db:"last_name"`
	Email         string    `json:"student_email"  db:"student_email"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`
}
