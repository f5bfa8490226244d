package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Default date format for backup file names.
const defaultDateFormat = "20060102-150405"

// Backup writes a compacted copy of the store into dir and verifies it.
// Returns the path of the new file.
func (r *SQLite) Backup(ctx context.Context, dir string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.Cfg.Exists() {
		return "", writeErr("backup", fmt.Errorf("%w: %q", ErrDBNotFound, r.Cfg.Fullpath()))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", writeErr("backup", err)
	}

	// 20060102-150405_prompts.db
	name := fmt.Sprintf("%s_%s", r.now().Format(defaultDateFormat), r.Name())
	dest := filepath.Join(dir, name)
	slog.Info("creating SQLite backup", "src", r.Cfg.Fullpath(), "dest", dest)

	if fileExists(dest) {
		return "", writeErr("backup", fmt.Errorf("%w: %q", ErrBackupExists, dest))
	}

	if _, err := r.DB.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return "", writeErr("backup", err)
	}

	if err := verifySQLiteIntegrity(ctx, dest); err != nil {
		return "", writeErr("backup", err)
	}

	return dest, nil
}

// ListBackups returns the backups of the named database found in dir.
func ListBackups(dir, dbName string) ([]string, error) {
	base := strings.TrimSuffix(dbName, filepath.Ext(dbName))
	entries, err := filepath.Glob(filepath.Join(dir, "*_"+base+".db*"))
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}

	return entries, nil
}

// Vacuum rebuilds the database file, repacking it into a minimal amount of
// disk space.
func (r *SQLite) Vacuum(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slog.Debug("vacuuming database")

	if _, err := r.DB.ExecContext(ctx, "VACUUM"); err != nil {
		return writeErr("vacuum", err)
	}

	return nil
}

// verifySQLiteIntegrity checks the integrity of the SQLite database at p.
func verifySQLiteIntegrity(ctx context.Context, p string) error {
	slog.Debug("verifying SQLite integrity", "path", p)

	db, err := sqlx.Open(driverName, p)
	if err != nil {
		return fmt.Errorf("opening backup: %w", err)
	}

	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing db", "error", err)
		}
	}()

	var result string
	if err := db.GetContext(ctx, &result, "PRAGMA integrity_check"); err != nil {
		return fmt.Errorf("%w: %w", ErrDBCorrupted, err)
	}

	if result != "ok" {
		return fmt.Errorf("%w: integrity check: %q", ErrDBCorrupted, result)
	}

	slog.Debug("SQLite integrity verified", "result", result)

	return nil
}
