package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/model"
	"github.com/sakif/lms-admin/internal/repository"
)

const (
	MsgAssignmentFieldsRequired = "Module and tutor are required"
	MsgModuleOrTutorNotFound    = "Module or tutor not found"
	MsgAlreadyAssigned          = "Tutor is already assigned to this module"
	MsgInvalidAssignmentID      = "Invalid assignment id"
	MsgCreateAssignmentFailed   = "Failed to assign tutor"
	MsgLoadAssignmentsFailed    = "Failed to load assignments"
	MsgDeleteAssignmentFailed   = "Failed to delete assignment"
)

// CreateAssignmentInput is the body of POST /api/assignments.
type CreateAssignmentInput struct {
	ModuleID int64 `json:"moduleId" validate:"required,gt=0"`
	TutorID  int64 `json:"tutorId"  validate:"required,gt=0"`
}

// AssignmentService links tutors to the modules they teach.
type AssignmentService struct {
	assignments repository.AssignmentRepository
	modules     repository.ModuleRepository
	tutors      repository.TutorRepository
	logger      zerolog.Logger
}

// NewAssignmentService takes the module and tutor repositories to check
// that both sides of an assignment belong to the caller's institution.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	modules repository.ModuleRepository,
	tutors repository.TutorRepository,
	logger zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		modules:     modules,
		tutors:      tutors,
		logger:      logger.With().Str("component", "assignments").Logger(),
	}
}

// Create assigns a tutor to a module. Both must belong to institutionID;
// otherwise the caller gets the same 404 whichever one is missing.
func (s *AssignmentService) Create(ctx context.Context, institutionID int64, in CreateAssignmentInput) (*model.Assignment, error) {
	if err := checkInput(in, MsgAssignmentFieldsRequired); err != nil {
		return nil, err
	}

	if _, err := s.modules.GetModule(ctx, institutionID, in.ModuleID); err != nil {
		return nil, s.lookupError(err, "module", in.ModuleID)
	}
	if _, err := s.tutors.GetTutor(ctx, institutionID, in.TutorID); err != nil {
		return nil, s.lookupError(err, "tutor", in.TutorID)
	}

	a := &model.Assignment{
		InstitutionID: institutionID,
		ModuleID:      in.ModuleID,
		TutorID:       in.TutorID,
	}
	if err := s.assignments.CreateAssignment(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(MsgAlreadyAssigned)
		}
		s.logger.Error().Err(err).Int64("module_id", in.ModuleID).Int64("tutor_id", in.TutorID).Msg("creating assignment failed")
		return nil, apperror.Internal(MsgCreateAssignmentFailed)
	}

	s.logger.Info().Int64("assignment_id", a.ID).Msg("tutor assigned")
	return a, nil
}

func (s *AssignmentService) lookupError(err error, kind string, id int64) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound(MsgModuleOrTutorNotFound)
	}
	s.logger.Error().Err(err).Str("kind", kind).Int64("id", id).Msg("assignment lookup failed")
	return apperror.Internal(MsgCreateAssignmentFailed)
}

// List returns assignments with module and tutor names, newest first.
func (s *AssignmentService) List(ctx context.Context, institutionID int64) ([]model.AssignmentDetail, error) {
	list, err := s.assignments.ListAssignments(ctx, institutionID)
	if err != nil {
		s.logger.Error().Err(err).Int64("institution_id", institutionID).Msg("listing assignments failed")
		return nil, apperror.Internal(MsgLoadAssignmentsFailed)
	}
	if list == nil {
		list = []model.AssignmentDetail{}
	}
	return list, nil
}

// Delete is idempotent and scoped like ModuleService.Delete.
func (s *AssignmentService) Delete(ctx context.Context, institutionID, assignmentID int64) error {
	if assignmentID <= 0 {
		return apperror.ValidationFailed("assignment_id", MsgInvalidAssignmentID)
	}
	if _, err := s.assignments.DeleteAssignment(ctx, institutionID, assignmentID); err != nil {
		s.logger.Error().Err(err).Int64("assignment_id", assignmentID).Msg("deleting assignment failed")
		return apperror.Internal(MsgDeleteAssignmentFailed)
	}
	return nil
}
