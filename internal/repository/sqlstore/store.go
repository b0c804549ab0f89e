// Package sqlstore implements the repository interfaces with sqlx over
// either Postgres (pgx) or SQLite (modernc.org/sqlite).
//
// Queries are written once with "?" placeholders and passed through
// db.Rebind, which rewrites them to $1, $2, ... for Postgres. Inserts use
// RETURNING to read the generated id, which both engines support.
//
// CONNECTION RELEASE:
// GetContext, SelectContext and ExecContext return their connection to the
// pool before returning, on success and on error. No method here holds a
// *sql.Rows past its own return.
package sqlstore

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/lms-admin/internal/repository"
)

// Store is safe for concurrent use; it only holds the shared pool handle.
type Store struct {
	db *sqlx.DB
}

var (
	_ repository.AdminRepository       = (*Store)(nil)
	_ repository.InstitutionRepository = (*Store)(nil)
	_ repository.TutorRepository       = (*Store)(nil)
	_ repository.ModuleRepository      = (*Store)(nil)
	_ repository.AssignmentRepository  = (*Store)(nil)
	_ repository.StudentRepository     = (*Store)(nil)
	_ repository.EnrollmentRepository  = (*Store)(nil)
	_ repository.DashboardRepository   = (*Store)(nil)
)

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// pgUniqueViolation is SQLSTATE unique_violation.
const pgUniqueViolation = "23505"

// isUniqueViolation recognises duplicate-key errors from either driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// primary code only, when extended codes are off
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}

func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}
