package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/auth"
	"github.com/sakif/lms-admin/internal/metrics"
	"github.com/sakif/lms-admin/internal/model"
	"github.com/sakif/lms-admin/internal/repository"
)

const (
	MsgTutorFieldsRequired = "First name, last name, email and password are required"
	MsgTutorEmailTaken     = "A tutor with this email already exists"
	MsgTutorPasswordLong   = "Password must be 72 bytes or fewer"
	MsgRegisterTutorFailed = "Failed to register tutor"
	MsgFetchTutorsFailed   = "Failed to fetch tutors"
)

// RegisterTutorInput is the body of POST /api/tutors/register.
type RegisterTutorInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required"`
	Password  string `json:"password"  validate:"required"`
}

// TutorService registers tutors with a bcrypt-hashed password.
type TutorService struct {
	repo      repository.TutorRepository
	passwords *auth.PasswordService
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewTutorService returns a TutorService. m may be nil.
func NewTutorService(repo repository.TutorRepository, passwords *auth.PasswordService, m *metrics.Metrics, logger zerolog.Logger) *TutorService {
	return &TutorService{
		repo:      repo,
		passwords: passwords,
		metrics:   m,
		logger:    logger.With().Str("component", "tutors").Logger(),
	}
}

// Register creates a tutor in institutionID. Emails are stored lower-cased.
//
// The existence check is only a fast path that skips the bcrypt cost for
// obvious duplicates; the UNIQUE constraint decides races between two
// concurrent registrations, and both paths answer 409.
func (s *TutorService) Register(ctx context.Context, institutionID int64, in RegisterTutorInput) (*model.Tutor, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := checkInput(in, MsgTutorFieldsRequired); err != nil {
		return nil, err
	}

	exists, err := s.repo.TutorEmailExists(ctx, in.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("tutor email check failed")
		return nil, apperror.Internal(MsgRegisterTutorFailed)
	}
	if exists {
		return nil, apperror.Conflict(MsgTutorEmailTaken)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", MsgTutorPasswordLong)
		}
		s.logger.Error().Err(err).Msg("hashing tutor password failed")
		return nil, apperror.Internal(MsgRegisterTutorFailed)
	}

	tutor := &model.Tutor{
		InstitutionID: institutionID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		PasswordHash:  hash,
	}
	if err := s.repo.CreateTutor(ctx, tutor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(MsgTutorEmailTaken)
		}
		s.logger.Error().Err(err).Int64("institution_id", institutionID).Msg("creating tutor failed")
		return nil, apperror.Internal(MsgRegisterTutorFailed)
	}

	s.metrics.TutorRegistered()
	s.logger.Info().Int64("tutor_id", tutor.ID).Int64("institution_id", institutionID).Msg("tutor registered")
	return tutor, nil
}

// List returns the institution's tutors, newest first.
func (s *TutorService) List(ctx context.Context, institutionID int64) ([]model.Tutor, error) {
	tutors, err := s.repo.ListTutors(ctx, institutionID)
	if err != nil {
		s.logger.Error().Err(err).Int64("institution_id", institutionID).Msg("listing tutors failed")
		return nil, apperror.Internal(MsgFetchTutorsFailed)
	}
	if tutors == nil {
		tutors = []model.Tutor{}
	}
	return tutors, nil
}
