// Package database owns the process-wide connection pool.
//
// POOL LIFECYCLE:
//
//	Open(ctx, cfg)  → builds a bounded pool and pings it with SELECT 1
//	Pool.DB()       → the *sqlx.DB every repository shares
//	Pool.Close(ctx) → drains the pool, giving up when ctx expires
//
// Two drivers are supported. For Postgres the pool is a pgxpool.Pool with
// MinConns/MaxConns, exposed to database/sql through pgx's stdlib adapter.
// For SQLite (modernc.org/sqlite, pure Go) database/sql's own pool is bounded
// with SetMaxOpenConns/SetMaxIdleConns. Repositories never see the
// difference: they use sqlx with "?" placeholders rebound per driver.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Config bounds the pool. Zero values take the defaults below.
type Config struct {
	Driver         string
	URL            string
	MinConns       int
	MaxConns       int
	ConnectTimeout time.Duration
}

const (
	defaultMinConns       = 1
	defaultMaxConns       = 10
	defaultConnectTimeout = 5 * time.Second
)

// Pool is an explicitly constructed, bounded connection pool.
type Pool struct {
	db     *sqlx.DB
	pg     *pgxpool.Pool // nil for SQLite
	driver string
}

// Open creates the pool and verifies a connection can be acquired and used.
// Any failure closes what was opened and returns an error; callers treat it
// as fatal.
func Open(ctx context.Context, cfg Config) (*Pool, error) {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = defaultMaxConns
	}
	if cfg.MinConns < 0 || cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = defaultMinConns
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	var (
		p   *Pool
		err error
	)
	switch cfg.Driver {
	case DriverPostgres:
		p, err = openPostgres(ctx, cfg)
	case DriverSQLite:
		p, err = openSQLite(cfg)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := p.Ping(pingCtx); err != nil {
		_ = p.closeNow()
		return nil, err
	}

	return p, nil
}

func openPostgres(ctx context.Context, cfg Config) (*Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("database: parsing postgres url: %w", err)
	}
	pgCfg.MinConns = int32(cfg.MinConns)
	pgCfg.MaxConns = int32(cfg.MaxConns)
	pgCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("database: creating postgres pool: %w", err)
	}

	p := Wrap(stdlib.OpenDBFromPool(pool), DriverPostgres)
	p.pg = pool
	return p, nil
}

func openSQLite(cfg Config) (*Pool, error) {
	dsn, err := sqliteDSN(cfg.URL)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: opening sqlite: %w", err)
	}
	conn.SetMaxOpenConns(cfg.MaxConns)
	conn.SetMaxIdleConns(max(cfg.MinConns, 1))

	return Wrap(conn, DriverSQLite), nil
}

// Wrap adopts an already opened handle without probing it. driver selects
// the placeholder style: DriverPostgres binds $N, anything else binds "?".
func Wrap(db *sql.DB, driver string) *Pool {
	// sqlx picks bind vars from the driver name it is told
	bindName := "sqlite3"
	if driver == DriverPostgres {
		bindName = "pgx"
	}
	return &Pool{db: sqlx.NewDb(db, bindName), driver: driver}
}

// sqliteDSN creates the parent directory for file databases. Unless the URL
// sets its own pragmas it turns on foreign keys, WAL and a busy timeout, and
// it stores times in SQLite's sortable text format.
func sqliteDSN(raw string) (string, error) {
	path := strings.TrimPrefix(raw, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path != "" && path != ":memory:" && !strings.Contains(raw, "mode=memory") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("database: creating %s: %w", dir, err)
			}
		}
	}

	q := url.Values{}
	if !strings.Contains(raw, "_pragma=") {
		q.Add("_pragma", "foreign_keys(1)")
		q.Add("_pragma", "busy_timeout(5000)")
		q.Add("_pragma", "journal_mode(WAL)")
	}
	if !strings.Contains(raw, "_time_format=") {
		q.Set("_time_format", "sqlite")
	}
	if len(q) == 0 {
		return raw, nil
	}

	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + q.Encode(), nil
}

// DB returns the shared handle used by repositories.
func (p *Pool) DB() *sqlx.DB {
	return p.db
}

// Driver reports DriverPostgres or DriverSQLite.
func (p *Pool) Driver() string {
	return p.driver
}

// Ping acquires a connection, runs SELECT 1 and releases it.
func (p *Pool) Ping(ctx context.Context) error {
	var one int
	if err := p.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	if one != 1 {
		return errors.New("database: SELECT 1 returned unexpected value")
	}
	return nil
}

// Stats exposes database/sql pool statistics. InUse is the number of
// connections currently checked out.
func (p *Pool) Stats() sql.DBStats {
	return p.db.Stats()
}

// Close drains the pool. It waits for checked-out connections to be returned
// until ctx is done, then gives up and reports the context error.
//
// Giving up does not stop the drain: closeNow keeps running and its result
// lands in the buffered channel, where it is dropped. Callers only close the
// pool on the way out of the process, so nothing waits for it.
func (p *Pool) Close(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- p.closeNow() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("database: draining pool: %w", ctx.Err())
	}
}

func (p *Pool) closeNow() error {
	err := p.db.Close()
	if p.pg != nil {
		// blocks until every acquired connection is released
		p.pg.Close()
	}
	if err != nil {
		return fmt.Errorf("database: closing: %w", err)
	}
	return nil
}
