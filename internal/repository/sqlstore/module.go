package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/model"
)

const moduleColumns = `module_id, institution_id, module_code, module_name, description, created_at`

func (s *Store) CreateModule(ctx context.Context, m *model.Module) error {
	m.CreatedAt = time.Now().UTC()
	err := s.db.GetContext(ctx, &m.ID, s.q(
		`INSERT INTO module (institution_id, module_code, module_name, description, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING module_id`),
		m.InstitutionID, m.Code, m.Name, m.Description, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlstore: creating module: %w", err)
	}
	return nil
}

func (s *Store) GetModule(ctx context.Context, institutionID, moduleID int64) (*model.Module, error) {
	var m model.Module
	err := s.db.GetContext(ctx, &m, s.q(
		`SELECT `+moduleColumns+` FROM module WHERE module_id = ? AND institution_id = ?`),
		moduleID, institutionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(fmt.Sprintf("module %d not found", moduleID))
		}
		return nil, fmt.Errorf("sqlstore: getting module %d: %w", moduleID, err)
	}
	return &m, nil
}

func (s *Store) ListModules(ctx context.Context, institutionID int64) ([]model.Module, error) {
	modules := []model.Module{}
	err := s.db.SelectContext(ctx, &modules, s.q(
		`SELECT `+moduleColumns+`
		 FROM module
		 WHERE institution_id = ?
		 ORDER BY created_at DESC, module_id DESC`), institutionID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing modules: %w", err)
	}
	return modules, nil
}

// DeleteModule removes the module only when it belongs to institutionID.
// Assignments referencing it go with it (ON DELETE CASCADE).
func (s *Store) DeleteModule(ctx context.Context, institutionID, moduleID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(
		`DELETE FROM module WHERE module_id = ? AND institution_id = ?`), moduleID, institutionID)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: deleting module %d: %w", moduleID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlstore: deleting module %d: %w", moduleID, err)
	}
	return n, nil
}
