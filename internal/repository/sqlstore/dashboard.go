package sqlstore

import (
	"context"
	"fmt"

	"github.com/sakif/lms-admin/internal/model"
)

func (s *Store) Counts(ctx context.Context, institutionID int64) (*model.DashboardCounts, error) {
	var c model.DashboardCounts
	err := s.db.GetContext(ctx, &c, s.q(
		`SELECT
		   (SELECT COUNT(*) FROM module     WHERE institution_id = ?) AS modules,
		   (SELECT COUNT(*) FROM tutor      WHERE institution_id = ?) AS tutors,
		   (SELECT COUNT(*) FROM assignment WHERE institution_id = ?) AS assignments,
		   (SELECT COUNT(*) FROM student    WHERE institution_id = ?) AS students,
		   (SELECT COUNT(*) FROM enrollment WHERE institution_id = ?) AS enrollments`),
		institutionID, institutionID, institutionID, institutionID, institutionID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: counting dashboard: %w", err)
	}
	return &c, nil
}
