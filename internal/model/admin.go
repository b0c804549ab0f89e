// Package model defines the records stored in the database and returned by
// the API. The db tags match column names; the json tags are the wire names,
// which are the same snake_case names so storage casing never diverges from
// what clients see.
package model

import (
	"database/sql"
	"time"
)

// Institution owns admins, tutors, students and modules. Provisioned with
// lmsadmin.
type Institution struct {
	ID        int64     `json:"institution_id" db:"institution_id"`
	Name      string    `json:"name"           db:"name"`
	CreatedAt time.Time `json:"created_at"     db:"created_at"`
}

// Admin is a portal administrator. PasswordHash is nullable at the column
// level; a NULL hash makes login fail with a server error rather than let
// anyone in.
type Admin struct {
	ID            int64          `json:"admin_id"       db:"admin_id"`
	InstitutionID int64          `json:"institution_id" db:"institution_id"`
	FirstName     string         `json:"first_name"     db:"first_name"`
	LastName      string         `json:"last_name"      db:"last_name"`
	Email         string         `json:"admin_email"    db:"admin_email"`
	PasswordHash  sql.NullString `json:"-"              db:"password_hash"`
	CreatedAt     time.Time      `json:"created_at"     db:"created_at"`
}
