package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/model"
	"github.com/sakif/lms-admin/internal/repository"
)

const (
	MsgEnrollmentFieldsRequired = "Student and module are required"
	MsgStudentOrModuleNotFound  = "Student or module not found"
	MsgAlreadyEnrolled          = "Student is already enrolled in this module"
	MsgGradeTooLong             = "Grade must be 8 characters or fewer"
	MsgInvalidEnrollmentID      = "Invalid enrollment id"
	MsgEnrollmentNotFound       = "Enrollment not found"
	MsgCreateEnrollmentFailed   = "Failed to enroll student"
	MsgLoadEnrollmentsFailed    = "Failed to load enrollments"
	MsgGradeEnrollmentFailed    = "Failed to update grade"
	MsgDeleteEnrollmentFailed   = "Failed to delete enrollment"
)

// maxGradeLen fits letter grades ("B+") and short marks ("72.5").
const maxGradeLen = 8

// CreateEnrollmentInput is the body of POST /api/enrollments. Grade is
// optional and usually set later.
type CreateEnrollmentInput struct {
	StudentID int64   `json:"studentId" validate:"required,gt=0"`
	ModuleID  int64   `json:"moduleId"  validate:"required,gt=0"`
	Grade     *string `json:"grade"`
}

// GradeInput is the body of PATCH /api/enrollments/{enrollment_id}. A null
// or blank grade clears it.
type GradeInput struct {
	Grade *string `json:"grade"`
}

// EnrollmentService places students on modules and records their grades.
type EnrollmentService struct {
	enrollments repository.EnrollmentRepository
	students    repository.StudentRepository
	modules     repository.ModuleRepository
	logger      zerolog.Logger
}

// NewEnrollmentService takes the student and module repositories to check
// that both sides of an enrollment belong to the caller's institution.
func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	students repository.StudentRepository,
	modules repository.ModuleRepository,
	logger zerolog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		students:    students,
		modules:     modules,
		logger:      logger.With().Str("component", "enrollments").Logger(),
	}
}

// Create enrolls a student on a module. Both must belong to institutionID,
// and either one missing gives the same 404.
func (s *EnrollmentService) Create(ctx context.Context, institutionID int64, in CreateEnrollmentInput) (*model.Enrollment, error) {
	if err := checkInput(in, MsgEnrollmentFieldsRequired); err != nil {
		return nil, err
	}
	grade, err := normalizeGrade(in.Grade)
	if err != nil {
		return nil, err
	}

	if _, err := s.students.GetStudent(ctx, institutionID, in.StudentID); err != nil {
		return nil, s.lookupError(err, "student", in.StudentID)
	}
	if _, err := s.modules.GetModule(ctx, institutionID, in.ModuleID); err != nil {
		return nil, s.lookupError(err, "module", in.ModuleID)
	}

	e := &model.Enrollment{
		InstitutionID: institutionID,
		StudentID:     in.StudentID,
		ModuleID:      in.ModuleID,
		Grade:         grade,
	}
	if err := s.enrollments.CreateEnrollment(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(MsgAlreadyEnrolled)
		}
		s.logger.Error().Err(err).Int64("student_id", in.StudentID).Int64("module_id", in.ModuleID).Msg("creating enrollment failed")
		return nil, apperror.Internal(MsgCreateEnrollmentFailed)
	}

	s.logger.Info().Int64("enrollment_id", e.ID).Msg("student enrolled")
	return e, nil
}

func (s *EnrollmentService) lookupError(err error, kind string, id int64) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound(MsgStudentOrModuleNotFound)
	}
	s.logger.Error().Err(err).Str("kind", kind).Int64("id", id).Msg("enrollment lookup failed")
	return apperror.Internal(MsgCreateEnrollmentFailed)
}

// List returns enrollments with student and module names, newest first.
func (s *EnrollmentService) List(ctx context.Context, institutionID int64) ([]model.EnrollmentDetail, error) {
	list, err := s.enrollments.ListEnrollments(ctx, institutionID)
	if err != nil {
		s.logger.Error().Err(err).Int64("institution_id", institutionID).Msg("listing enrollments failed")
		return nil, apperror.Internal(MsgLoadEnrollmentsFailed)
	}
	if list == nil {
		list = []model.EnrollmentDetail{}
	}
	return list, nil
}

// SetGrade records or clears a grade. Unlike Delete it reports a missing
// enrollment, since the caller expects a change to have happened.
func (s *EnrollmentService) SetGrade(ctx context.Context, institutionID, enrollmentID int64, in GradeInput) error {
	if enrollmentID <= 0 {
		return apperror.ValidationFailed("enrollment_id", MsgInvalidEnrollmentID)
	}
	grade, err := normalizeGrade(in.Grade)
	if err != nil {
		return err
	}

	n, err := s.enrollments.SetEnrollmentGrade(ctx, institutionID, enrollmentID, grade)
	if err != nil {
		s.logger.Error().Err(err).Int64("enrollment_id", enrollmentID).Msg("grading enrollment failed")
		return apperror.Internal(MsgGradeEnrollmentFailed)
	}
	if n == 0 {
		return apperror.NotFound(MsgEnrollmentNotFound)
	}
	return nil
}

// Delete is idempotent and scoped like ModuleService.Delete.
func (s *EnrollmentService) Delete(ctx context.Context, institutionID, enrollmentID int64) error {
	if enrollmentID <= 0 {
		return apperror.ValidationFailed("enrollment_id", MsgInvalidEnrollmentID)
	}
	if _, err := s.enrollments.DeleteEnrollment(ctx, institutionID, enrollmentID); err != nil {
		s.logger.Error().Err(err).Int64("enrollment_id", enrollmentID).Msg("deleting enrollment failed")
		return apperror.Internal(MsgDeleteEnrollmentFailed)
	}
	return nil
}

// normalizeGrade trims g and turns blank into nil.
func normalizeGrade(g *string) (*string, error) {
	if g == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*g)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > maxGradeLen {
		return nil, apperror.ValidationFailed("grade", MsgGradeTooLong)
	}
	return &trimmed, nil
}
