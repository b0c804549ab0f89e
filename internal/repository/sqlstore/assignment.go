package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/lms-admin/internal/model"
	"github.com/sakif/lms-admin/internal/repository"
)

func (s *Store) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	a.AssignedAt = time.Now().UTC()
	err := s.db.GetContext(ctx, &a.ID, s.q(
		`INSERT INTO assignment (institution_id, module_id, tutor_id, assigned_at)
		 VALUES (?, ?, ?, ?)
		 RETURNING assignment_id`),
		a.InstitutionID, a.ModuleID, a.TutorID, a.AssignedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlstore: creating assignment: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("sqlstore: creating assignment: %w", err)
	}
	return nil
}

// ListAssignments joins module and tutor names in one round trip.
func (s *Store) ListAssignments(ctx context.Context, institutionID int64) ([]model.AssignmentDetail, error) {
	out := []model.AssignmentDetail{}
	err := s.db.SelectContext(ctx, &out, s.q(
		`SELECT a.assignment_id, a.institution_id, a.module_id, a.tutor_id, a.assigned_at,
		        m.module_code, m.module_name,
		        t.first_name AS tutor_first_name, t.last_name AS tutor_last_name
		 FROM assignment a
		 JOIN module m ON m.module_id = a.module_id
		 JOIN tutor t ON t.tutor_id = a.tutor_id
		 WHERE a.institution_id = ?
		 ORDER BY a.assigned_at DESC, a.assignment_id DESC`), institutionID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing assignments: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteAssignment(ctx context.Context, institutionID, assignmentID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(
		`DELETE FROM assignment WHERE assignment_id = ? AND institution_id = ?`), assignmentID, institutionID)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: deleting assignment %d: %w", assignmentID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlstore: deleting assignment %d: %w", assignmentID, err)
	}
	return n, nil
}
