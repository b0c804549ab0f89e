package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/model"
	"github.com/sakif/lms-admin/internal/repository"
)

const MsgLoadDashboardFailed = "Failed to load dashboard"

// DashboardService reports per-institution totals.
type DashboardService struct {
	repo   repository.DashboardRepository
	logger zerolog.Logger
}

// NewDashboardService returns a DashboardService over repo.
func NewDashboardService(repo repository.DashboardRepository, logger zerolog.Logger) *DashboardService {
	return &DashboardService{repo: repo, logger: logger}
}

// Summary counts modules, tutors, assignments, students and enrollments.
func (s *DashboardService) Summary(ctx context.Context, institutionID int64) (*model.DashboardCounts, error) {
	counts, err := s.repo.Counts(ctx, institutionID)
	if err != nil {
		s.logger.Error().Err(err).Int64("institution_id", institutionID).Msg("dashboard counts failed")
		return nil, apperror.Internal(MsgLoadDashboardFailed)
	}
	return counts, nil
}
