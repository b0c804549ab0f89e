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

func (s *Store) CreateInstitution(ctx context.Context, inst *model.Institution) error {
	inst.CreatedAt = time.Now().UTC()
	err := s.db.GetContext(ctx, &inst.ID, s.q(
		`INSERT INTO institution (name, created_at) VALUES (?, ?) RETURNING institution_id`),
		inst.Name, inst.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlstore: creating institution: %w", err)
	}
	return nil
}

func (s *Store) GetInstitution(ctx context.Context, id int64) (*model.Institution, error) {
	var inst model.Institution
	err := s.db.GetContext(ctx, &inst, s.q(
		`SELECT institution_id, name, created_at FROM institution WHERE institution_id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(fmt.Sprintf("institution %d not found", id))
		}
		return nil, fmt.Errorf("sqlstore: getting institution %d: %w", id, err)
	}
	return &inst, nil
}
