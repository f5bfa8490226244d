package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// migration is one forward schema step. up must be idempotent: it may run
// against a file that already has the change but no recorded version.
type migration struct {
	version int
	name    string
	up      func(ctx context.Context, tx *sqlx.Tx) error
}

// migrations are applied in order; the last applied version is kept in
// PRAGMA user_version.
var migrations = []migration{
	{version: 1, name: "create prompts table", up: createMainTable},
	{version: 2, name: "add sort_order column", up: addSortOrder},
}

// SchemaVersion returns the latest schema version known to this build.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// migrate applies every pending migration, each in its own transaction.
func (r *SQLite) migrate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := userVersion(ctx, r.DB)
	if err != nil {
		return err
	}

	if current == 0 {
		legacy, err := tableExists(ctx, r.DB, tableMain)
		if err != nil {
			return err
		}

		if legacy {
			slog.Info("unversioned database, upgrading", "path", r.Cfg.Fullpath())
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		slog.Debug("applying migration", "version", m.version, "name", m.name)

		err := r.withTx(ctx, func(tx *sqlx.Tx) error {
			if err := m.up(ctx, tx); err != nil {
				return err
			}

			_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version))
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d %q: %w", m.version, m.name, err)
		}
	}

	return nil
}

// userVersion reads the schema version stored in the database header.
func userVersion(ctx context.Context, db *sqlx.DB) (int, error) {
	var v int
	if err := db.GetContext(ctx, &v, "PRAGMA user_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}

	return v, nil
}

func createMainTable(ctx context.Context, tx *sqlx.Tx) error {
	slog.Debug("creating table", "name", tableMain)

	if _, err := tx.ExecContext(ctx, tableMainSchema); err != nil {
		return fmt.Errorf("creating %q table: %w", tableMain, err)
	}

	return nil
}

func addSortOrder(ctx context.Context, tx *sqlx.Tx) error {
	return addColumnIfNotExists(ctx, tx, tableMain, columnSortOrder, columnSortOrderDef)
}

// addColumnIfNotExists adds column to table unless PRAGMA table_info already
// lists it.
func addColumnIfNotExists(ctx context.Context, tx *sqlx.Tx, t Table, column, def string) error {
	exists, err := columnExists(ctx, tx, t, column)
	if err != nil {
		return err
	}

	if exists {
		slog.Debug("column already present", "table", t, "column", column)
		return nil
	}

	slog.Info("adding column", "table", t, "column", column)

	q := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", t, column, def)
	if _, err := tx.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("adding column %q to %q: %w", column, t, err)
	}

	return nil
}

// columnExists checks whether table t has the named column.
func columnExists(ctx context.Context, tx *sqlx.Tx, t Table, column string) (bool, error) {
	var cols []string
	q := fmt.Sprintf("SELECT name FROM pragma_table_info('%s')", t)
	if err := tx.SelectContext(ctx, &cols, q); err != nil {
		return false, fmt.Errorf("reading columns of %q: %w", t, err)
	}

	for _, c := range cols {
		if c == column {
			return true, nil
		}
	}

	return false, nil
}

// tableExists checks whether a table with the specified name exists.
func tableExists(ctx context.Context, db sqlx.QueryerContext, t Table) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, db, &count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", t)
	if err != nil {
		return false, fmt.Errorf("checking table %q: %w", t, err)
	}

	return count > 0, nil
}
