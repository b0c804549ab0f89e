// Package repository declares the storage interfaces the service layer
// depends on. The sqlstore package implements them over Postgres or SQLite.
//
// Every method that targets tenant data takes the institution id explicitly;
// implementations must filter on it so one institution never reads or
// changes another's rows.
package repository

import (
	"context"
	"errors"

	"github.com/sakif/lms-admin/internal/model"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("repository: duplicate key")

type AdminRepository interface {
	// GetAdminByEmail matches case-insensitively. Missing rows return an
	// apperror.ErrNotFound.
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	// SaveAdmin inserts, or updates names and hash when the email exists.
	SaveAdmin(ctx context.Context, admin *model.Admin) error
}

type InstitutionRepository interface {
	CreateInstitution(ctx context.Context, inst *model.Institution) error
	GetInstitution(ctx context.Context, id int64) (*model.Institution, error)
}

type TutorRepository interface {
	TutorEmailExists(ctx context.Context, email string) (bool, error)
	// CreateTutor fills tutor.ID. A taken email returns ErrDuplicate.
	CreateTutor(ctx context.Context, tutor *model.Tutor) error
	GetTutor(ctx context.Context, institutionID, tutorID int64) (*model.Tutor, error)
	// ListTutors returns newest first; never nil.
	ListTutors(ctx context.Context, institutionID int64) ([]model.Tutor, error)
}

type ModuleRepository interface {
	CreateModule(ctx context.Context, module *model.Module) error
	GetModule(ctx context.Context, institutionID, moduleID int64) (*model.Module, error)
	ListModules(ctx context.Context, institutionID int64) ([]model.Module, error)
	// DeleteModule reports rows affected; zero is not an error.
	DeleteModule(ctx context.Context, institutionID, moduleID int64) (int64, error)
}

type AssignmentRepository interface {
	// CreateAssignment returns ErrDuplicate when the pair already exists.
	CreateAssignment(ctx context.Context, a *model.Assignment) error
	ListAssignments(ctx context.Context, institutionID int64) ([]model.AssignmentDetail, error)
	DeleteAssignment(ctx context.Context, institutionID, assignmentID int64) (int64, error)
}

type StudentRepository interface {
	// CreateStudent fills student.ID. An email already used in the same
	// institution returns ErrDuplicate.
	CreateStudent(ctx context.Context, student *model.Student) error
	GetStudent(ctx context.Context, institutionID, studentID int64) (*model.Student, error)
	// ListStudents returns newest first; never nil.
	ListStudents(ctx context.Context, institutionID int64) ([]model.Student, error)
}

type EnrollmentRepository interface {
	// CreateEnrollment returns ErrDuplicate when the student already takes
	// the module.
	CreateEnrollment(ctx context.Context, e *model.Enrollment) error
	ListEnrollments(ctx context.Context, institutionID int64) ([]model.EnrollmentDetail, error)
	// SetEnrollmentGrade stores grade, which may be nil to clear it. Zero
	// rows affected means no such enrollment in the institution.
	SetEnrollmentGrade(ctx context.Context, institutionID, enrollmentID int64, grade *string) (int64, error)
	DeleteEnrollment(ctx context.Context, institutionID, enrollmentID int64) (int64, error)
}

type DashboardRepository interface {
	Counts(ctx context.Context, institutionID int64) (*model.DashboardCounts, error)
}
