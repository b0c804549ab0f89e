package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/model"
	"github.com/sakif/lms-admin/internal/repository"
)

const studentColumns = `student_id, institution_id, first_name, last_name, student_email, created_at`

func (s *Store) CreateStudent(ctx context.Context, student *model.Student) error {
	student.CreatedAt = time.Now().UTC()
	err := s.db.GetContext(ctx, &student.ID, s.q(
		`INSERT INTO student (institution_id, first_name, last_name, student_email, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING student_id`),
		student.InstitutionID, student.FirstName, student.LastName, student.Email, student.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlstore: creating student: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("sqlstore: creating student: %w", err)
	}
	return nil
}

func (s *Store) GetStudent(ctx context.Context, institutionID, studentID int64) (*model.Student, error) {
	var st model.Student
	err := s.db.GetContext(ctx, &st, s.q(
		`SELECT `+studentColumns+` FROM student WHERE student_id = ? AND institution_id = ?`),
		studentID, institutionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(fmt.Sprintf("student %d not found", studentID))
		}
		return nil, fmt.Errorf("sqlstore: getting student %d: %w", studentID, err)
	}
	return &st, nil
}

func (s *Store) ListStudents(ctx context.Context, institutionID int64) ([]model.Student, error) {
	students := []model.Student{}
	err := s.db.SelectContext(ctx, &students, s.q(
		`SELECT `+studentColumns+`
		 FROM student
		 WHERE institution_id = ?
		 ORDER BY created_at DESC, student_id DESC`), institutionID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing students: %w", err)
	}
	return students, nil
}
