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
	MsgStudentFieldsRequired = "First name, last name and email are required"
	MsgStudentEmailTaken     = "A student with this email already exists"
	MsgCreateStudentFailed   = "Failed to add student"
	MsgFetchStudentsFailed   = "Failed to fetch students"
)

// CreateStudentInput is the body of POST /api/students.
type CreateStudentInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required"`
}

// StudentService keeps the roster that enrollments draw from. Students have
// no portal login, so there is no password to hash.
type StudentService struct {
	repo   repository.StudentRepository
	logger zerolog.Logger
}

// NewStudentService returns a StudentService over repo.
func NewStudentService(repo repository.StudentRepository, logger zerolog.Logger) *StudentService {
	return &StudentService{
		repo:   repo,
		logger: logger.With().Str("component", "students").Logger(),
	}
}

// Create adds a student to institutionID. The email is stored lower-cased
// and must be unused within the institution.
func (s *StudentService) Create(ctx context.Context, institutionID int64, in CreateStudentInput) (*model.Student, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := checkInput(in, MsgStudentFieldsRequired); err != nil {
		return nil, err
	}

	st := &model.Student{
		InstitutionID: institutionID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
	}
	if err := s.repo.CreateStudent(ctx, st); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(MsgStudentEmailTaken)
		}
		s.logger.Error().Err(err).Int64("institution_id", institutionID).Msg("creating student failed")
		return nil, apperror.Internal(MsgCreateStudentFailed)
	}

	s.logger.Info().Int64("student_id", st.ID).Int64("institution_id", institutionID).Msg("student added")
	return st, nil
}

// List returns the institution's students, newest first.
func (s *StudentService) List(ctx context.Context, institutionID int64) ([]model.Student, error) {
	students, err := s.repo.ListStudents(ctx, institutionID)
	if err != nil {
		s.logger.Error().Err(err).Int64("institution_id", institutionID).Msg("listing students failed")
		return nil, apperror.Internal(MsgFetchStudentsFailed)
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}
