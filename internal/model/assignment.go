package model

import "time"

// Assignment links a tutor to a module they teach. A pair can exist once.
type Assignment struct {
	ID            int64     `json:"assignment_id"  db:"assignment_id"`
	InstitutionID int64     `json:"institution_id" db:"institution_id"`
	ModuleID      int64     `json:"module_id"      db:"module_id"`
	TutorID       int64     `json:"tutor_id"       db:"tutor_id"`
	AssignedAt    time.Time `json:"assigned_at"    db:"assigned_at"`
}

// AssignmentDetail is an assignment joined with the names shown in listings.
type AssignmentDetail struct {
	Assignment
	ModuleCode     string `json:"module_code"      db:"module_code"`
	ModuleName     string `json:"module_name"      db:"module_name"`
	TutorFirstName string `json:"tutor_first_name" db:"tutor_first_name"`
	TutorLastName  string `json:"tutor_last_name"  db:"tutor_last_name"`
}
