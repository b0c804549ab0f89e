package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/model"
	"github.com/sakif/lms-admin/internal/repository"
)

const (
	MsgModuleFieldsRequired = "Module code and name are required"
	MsgInvalidModuleID      = "Invalid module id"
	MsgLoadModulesFailed    = "Failed to load modules"
	MsgCreateModuleFailed   = "Failed to create module"
	MsgDeleteModuleFailed   = "Failed to delete module"
)

// CreateModuleInput is the body of POST /api/modules.
type CreateModuleInput struct {
	Code        string  `json:"code"        validate:"required"`
	Name        string  `json:"name"        validate:"required"`
	Description *string `json:"description"`
}

// ModuleService manages the modules an institution offers.
type ModuleService struct {
	repo   repository.ModuleRepository
	logger zerolog.Logger
}

// NewModuleService returns a ModuleService over repo.
func NewModuleService(repo repository.ModuleRepository, logger zerolog.Logger) *ModuleService {
	return &ModuleService{
		repo:   repo,
		logger: logger.With().Str("component", "modules").Logger(),
	}
}

// Create adds a module to institutionID. A blank description is stored as NULL.
func (s *ModuleService) Create(ctx context.Context, institutionID int64, in CreateModuleInput) (*model.Module, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if err := checkInput(in, MsgModuleFieldsRequired); err != nil {
		return nil, err
	}

	var desc *string
	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != "" {
			desc = &d
		}
	}

	m := &model.Module{
		InstitutionID: institutionID,
		Code:          in.Code,
		Name:          in.Name,
		Description:   desc,
	}
	if err := s.repo.CreateModule(ctx, m); err != nil {
		s.logger.Error().Err(err).Int64("institution_id", institutionID).Msg("creating module failed")
		return nil, apperror.Internal(MsgCreateModuleFailed)
	}

	s.logger.Info().Int64("module_id", m.ID).Str("code", m.Code).Msg("module created")
	return m, nil
}

// List returns the institution's modules, newest first.
func (s *ModuleService) List(ctx context.Context, institutionID int64) ([]model.Module, error) {
	modules, err := s.repo.ListModules(ctx, institutionID)
	if err != nil {
		s.logger.Error().Err(err).Int64("institution_id", institutionID).Msg("listing modules failed")
		return nil, apperror.Internal(MsgLoadModulesFailed)
	}
	if modules == nil {
		modules = []model.Module{}
	}
	return modules, nil
}

// Delete removes a module owned by institutionID. Deleting a module that
// does not exist, or belongs to another institution, succeeds without
// changing anything.
func (s *ModuleService) Delete(ctx context.Context, institutionID, moduleID int64) error {
	if moduleID <= 0 {
		return apperror.ValidationFailed("module_id", MsgInvalidModuleID)
	}

	n, err := s.repo.DeleteModule(ctx, institutionID, moduleID)
	if err != nil {
		s.logger.Error().Err(err).Int64("module_id", moduleID).Msg("deleting module failed")
		return apperror.Internal(MsgDeleteModuleFailed)
	}

	s.logger.Info().Int64("module_id", moduleID).Int64("rows", n).Msg("module delete")
	return nil
}
