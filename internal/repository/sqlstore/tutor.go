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

const tutorColumns = `tutor_id, institution_id, first_name, last_name, tutor_email, password_hash, created_at`

func (s *Store) TutorEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, s.q(
		`SELECT EXISTS (SELECT 1 FROM tutor WHERE tutor_email = ?)`), email)
	if err != nil {
		return false, fmt.Errorf("sqlstore: checking tutor email: %w", err)
	}
	return exists, nil
}

// CreateTutor relies on the UNIQUE constraint on tutor_email; a concurrent
// registration that slipped past TutorEmailExists surfaces as ErrDuplicate.
func (s *Store) CreateTutor(ctx context.Context, tutor *model.Tutor) error {
	tutor.CreatedAt = time.Now().UTC()
	err := s.db.GetContext(ctx, &tutor.ID, s.q(
		`INSERT INTO tutor (institution_id, first_name, last_name, tutor_email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING tutor_id`),
		tutor.InstitutionID, tutor.FirstName, tutor.LastName, tutor.Email, tutor.PasswordHash, tutor.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlstore: creating tutor: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("sqlstore: creating tutor: %w", err)
	}
	return nil
}

func (s *Store) GetTutor(ctx context.Context, institutionID, tutorID int64) (*model.Tutor, error) {
	var t model.Tutor
	err := s.db.GetContext(ctx, &t, s.q(
		`SELECT `+tutorColumns+` FROM tutor WHERE tutor_id = ? AND institution_id = ?`),
		tutorID, institutionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(fmt.Sprintf("tutor %d not found", tutorID))
		}
		return nil, fmt.Errorf("sqlstore: getting tutor %d: %w", tutorID, err)
	}
	return &t, nil
}

func (s *Store) ListTutors(ctx context.Context, institutionID int64) ([]model.Tutor, error) {
	tutors := []model.Tutor{}
	err := s.db.SelectContext(ctx, &tutors, s.q(
		`SELECT `+tutorColumns+`
		 FROM tutor
		 WHERE institution_id = ?
		 ORDER BY created_at DESC, tutor_id DESC`), institutionID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing tutors: %w", err)
	}
	return tutors, nil
}
