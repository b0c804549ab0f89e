package model

// DashboardCounts summarises an institution for the dashboard page.
type DashboardCounts struct {
	Modules     int64 `json:"modules"     db:"modules"`
	Tutors      int64 `json:"tutors"      db:"tutors"`
	Assignments int64 `json:"assignments" db:"assignments"`
	Students    int64 `json:"students"    db:"students"`
	Enrollments int64 `json:"enrollments" db:"enrollments"`
}
