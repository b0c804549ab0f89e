package model

import "time"

// Enrollment places a student on a module. Grade stays NULL until one is
// recorded.
type Enrollment struct {
	ID            int64     `json:"enrollment_id"  db:"enrollment_id"`
	InstitutionID int64     `json:"institution_id" db:"institution_id"`
	StudentID     int64     `json:"student_id"     db:"student_id"`
	ModuleID      int64     `json:"module_id"      db:"module_id"`
	EnrolledAt    time.Time `json:"enrolled_at"    db:"enrolled_at"`
	Grade         *string   `json:"grade"          db:"grade"`
}

// EnrollmentDetail adds the student and module names shown in listings.
type EnrollmentDetail struct {
	Enrollment
	StudentFirstName string `json:"student_first_name" db:"student_first_name"`
	StudentLastName  string `json:"student_last_name"  db:"student_last_name"`
	ModuleCode       string `json:"module_code"        db:"module_code"`
	ModuleName       string `json:"module_name"        db:"module_name"`
}
