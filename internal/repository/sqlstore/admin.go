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

const adminColumns = `admin_id, institution_id, first_name, last_name, admin_email, password_hash, created_at`

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var a model.Admin
	err := s.db.GetContext(ctx, &a, s.q(
		`SELECT `+adminColumns+`
		 FROM admin
		 WHERE LOWER(admin_email) = LOWER(?)`), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("admin not found")
		}
		return nil, fmt.Errorf("sqlstore: getting admin by email: %w", err)
	}
	return &a, nil
}

// SaveAdmin is used by the provisioning CLI. An existing admin with the same
// email (any case) keeps its id and institution; names and hash are replaced.
func (s *Store) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	existing, err := s.GetAdminByEmail(ctx, admin.Email)
	switch {
	case err == nil:
		_, err := s.db.ExecContext(ctx, s.q(
			`UPDATE admin SET first_name = ?, last_name = ?, password_hash = ?
			 WHERE admin_id = ?`),
			admin.FirstName, admin.LastName, admin.PasswordHash, existing.ID)
		if err != nil {
			return fmt.Errorf("sqlstore: updating admin %d: %w", existing.ID, err)
		}
		admin.ID = existing.ID
		admin.InstitutionID = existing.InstitutionID
		admin.CreatedAt = existing.CreatedAt
		return nil
	case !errors.Is(err, apperror.ErrNotFound):
		return err
	}

	admin.CreatedAt = time.Now().UTC()
	err = s.db.GetContext(ctx, &admin.ID, s.q(
		`INSERT INTO admin (institution_id, first_name, last_name, admin_email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING admin_id`),
		admin.InstitutionID, admin.FirstName, admin.LastName, admin.Email, admin.PasswordHash, admin.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlstore: creating admin: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("sqlstore: creating admin: %w", err)
	}
	return nil
}
