package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/lms-admin/internal/model"
	"github.com/sakif/lms-admin/internal/repository"
)

func (s *Store) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	e.EnrolledAt = time.Now().UTC()
	err := s.db.GetContext(ctx, &e.ID, s.q(
		`INSERT INTO enrollment (institution_id, student_id, module_id, enrolled_at, grade)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING enrollment_id`),
		e.InstitutionID, e.StudentID, e.ModuleID, e.EnrolledAt, e.Grade)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlstore: creating enrollment: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("sqlstore: creating enrollment: %w", err)
	}
	return nil
}

// ListEnrollments joins student and module names, newest first.
func (s *Store) ListEnrollments(ctx context.Context, institutionID int64) ([]model.EnrollmentDetail, error) {
	out := []model.EnrollmentDetail{}
	err := s.db.SelectContext(ctx, &out, s.q(
		`SELECT e.enrollment_id, e.institution_id, e.student_id, e.module_id, e.enrolled_at, e.grade,
		        st.first_name AS student_first_name, st.last_name AS student_last_name,
		        m.module_code, m.module_name
		 FROM enrollment e
		 JOIN student st ON st.student_id = e.student_id
		 JOIN module m ON m.module_id = e.module_id
		 WHERE e.institution_id = ?
		 ORDER BY e.enrolled_at DESC, e.enrollment_id DESC`), institutionID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing enrollments: %w", err)
	}
	return out, nil
}

func (s *Store) SetEnrollmentGrade(ctx context.Context, institutionID, enrollmentID int64, grade *string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(
		`UPDATE enrollment SET grade = ? WHERE enrollment_id = ? AND institution_id = ?`),
		grade, enrollmentID, institutionID)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: grading enrollment %d: %w", enrollmentID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlstore: grading enrollment %d: %w", enrollmentID, err)
	}
	return n, nil
}

func (s *Store) DeleteEnrollment(ctx context.Context, institutionID, enrollmentID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(
		`DELETE FROM enrollment WHERE enrollment_id = ? AND institution_id = ?`), enrollmentID, institutionID)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: deleting enrollment %d: %w", enrollmentID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlstore: deleting enrollment %d: %w", enrollmentID, err)
	}
	return n, nil
}
