package model

import "time"

// Module is a course unit offered by an institution.
type Module struct {
	ID            int64     `json:"module_id"      db:"module_id"`
	InstitutionID int64     `json:"institution_id" db:"institution_id"`
	Code          string    `json:"module_code"    db:"module_code"`
	Name          string    `json:"module_name"    db:"module_name"`
	Description   *string   `json:"description"    db:"description"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`
}
