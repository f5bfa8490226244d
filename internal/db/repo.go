// Package db provides the SQLite-backed prompt store.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLite is the prompt store. Every operation holds mu for its whole
// duration; the pool is pinned to a single connection.
type SQLite struct {
	DB        *sqlx.DB `json:"-"`
	Cfg       *Cfg     `json:"db"`
	mu        sync.Mutex
	now       func() time.Time
	closeOnce sync.Once
}

// Option configures a store at open time.
type Option func(*SQLite)

// WithClock replaces the clock used for created_at, updated_at and
// last_used.
func WithClock(fn func() time.Time) Option {
	return func(r *SQLite) {
		r.now = fn
	}
}

// Name returns the name of the SQLite database.
func (r *SQLite) Name() string {
	return r.Cfg.Name
}

// Close closes the SQLite database connection and logs any errors encountered.
func (r *SQLite) Close() {
	s := r.Name()
	r.closeOnce.Do(func() {
		if err := r.DB.Close(); err != nil {
			slog.Error("closing database", "name", s, "error", err)
		} else {
			slog.Debug("database closed", "name", s)
		}
	})
}

// Open opens the store at path, creating the file if needed, and brings its
// schema up to date. Every failure is a KindInit error.
func Open(ctx context.Context, p string, opts ...Option) (*SQLite, error) {
	const op = "open"
	if p == "" {
		return nil, initErr(op, ErrPathEmpty)
	}

	c, err := newSQLiteCfg(p)
	if err != nil {
		return nil, initErr(op, err)
	}

	db, err := openDatabase(ctx, p)
	if err != nil {
		slog.Error("open store", "error", err, "path", p)
		return nil, initErr(op, err)
	}

	r := &SQLite{
		DB:  db,
		Cfg: c,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.migrate(ctx); err != nil {
		r.Close()
		return nil, initErr("migrate", err)
	}

	return r, nil
}

// openDatabase opens a SQLite database at the specified path and verifies
// the connection, returning the database handle or an error.
func openDatabase(ctx context.Context, p string) (*sqlx.DB, error) {
	slog.Debug("opening database", "path", p, "driver", driverName)

	db, err := sqlx.Open(driverName, buildSQLiteDSN(p))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// one physical connection; the store mutex serializes its users.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: on ping context", err)
	}

	return db, nil
}

// buildSQLiteDSN appends the driver parameters to the file path.
func buildSQLiteDSN(p string) string {
	q := dsnParams().Encode()
	if q == "" {
		return p
	}

	sep := "?"
	if strings.Contains(p, "?") {
		sep = "&"
	}

	return p + sep + q
}

// withTx executes fn within a transaction. The caller holds mu.
func (r *SQLite) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("rollback error", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	return nil
}

// Cfg represents the location of a SQLite database.
type Cfg struct {
	Name string `json:"name"` // Name of the SQLite database
	Path string `json:"path"` // Directory holding the database
}

// Fullpath returns the full path to the SQLite database.
func (c *Cfg) Fullpath() string {
	return filepath.Join(c.Path, c.Name)
}

// Exists returns true if the SQLite database exists.
func (c *Cfg) Exists() bool {
	return fileExists(c.Fullpath())
}

// newSQLiteCfg resolves the database location.
func newSQLiteCfg(p string) (*Cfg, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %q: %w", p, err)
	}

	return &Cfg{
		Path: filepath.Dir(abs),
		Name: filepath.Base(abs),
	}, nil
}

// fileExists checks if a file exists.
func fileExists(s string) bool {
	_, err := os.Stat(s)
	return !os.IsNotExist(err)
}
