package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mateconpizza/gp/internal/prompt"
)

// timeLayout is RFC3339 in UTC with fixed-width nanoseconds, so the text
// order of stored values matches their chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// promptRow is the stored shape of a prompt.
type promptRow struct {
	ID        int64          `db:"id"`
	Title     string         `db:"title"`
	Content   string         `db:"content"`
	Tags      string         `db:"tags"`
	CreatedAt string         `db:"created_at"`
	UpdatedAt string         `db:"updated_at"`
	LastUsed  sql.NullString `db:"last_used"`
	SortOrder sql.NullInt64  `db:"sort_order"`
}

// toPrompt converts a row into its read shape. Malformed timestamps are
// reported, never dropped.
func (row *promptRow) toPrompt() (*prompt.Prompt, error) {
	created, err := parseTime(row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d: created_at: %w", ErrRecordMalformed, row.ID, err)
	}

	updated, err := parseTime(row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d: updated_at: %w", ErrRecordMalformed, row.ID, err)
	}

	p := &prompt.Prompt{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content,
		Tags:      prompt.ParseTags(row.Tags),
		CreatedAt: created,
		UpdatedAt: updated,
		SortOrder: row.SortOrder.Int64,
	}

	if row.LastUsed.Valid {
		lu, err := parseTime(row.LastUsed.String)
		if err != nil {
			return nil, fmt.Errorf("%w: id %d: last_used: %w", ErrRecordMalformed, row.ID, err)
		}
		p.LastUsed = &lu
	}

	return p, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}

	return t.UTC(), nil
}

// timestamp returns the current time in its stored form.
func (r *SQLite) timestamp() string {
	return r.now().UTC().Format(timeLayout)
}

// List returns every prompt, ordered by sort_order, then most recently used
// (never used last), then newest.
func (r *SQLite) List(ctx context.Context) ([]*prompt.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := "SELECT " + promptColumns + " FROM prompts" + promptOrder
	ps, err := r.bySQL(ctx, q)
	if err != nil {
		return nil, queryErr("list", err)
	}

	slog.Debug("listing records", "got", len(ps))

	return ps, nil
}

// Search returns prompts whose title, content or raw tags contain query, in
// the same order as List. An empty query matches every prompt.
func (r *SQLite) Search(ctx context.Context, query string) ([]*prompt.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := "SELECT " + promptColumns + `
		FROM prompts
		WHERE title LIKE ? OR content LIKE ? OR tags LIKE ?` + promptOrder
	v := "%" + query + "%"

	ps, err := r.bySQL(ctx, q, v, v, v)
	if err != nil {
		return nil, queryErr("search", err)
	}

	slog.Debug("got records by query", "count", len(ps), "query", query)

	return ps, nil
}

// ByID returns the prompt with the given id.
func (r *SQLite) ByID(ctx context.Context, id int64) (*prompt.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var row promptRow
	q := "SELECT " + promptColumns + " FROM prompts WHERE id = ?"
	if err := r.DB.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &Error{Kind: KindNotFound, Op: "by id", Err: fmt.Errorf("%w with id: %d", ErrRecordNotFound, id)}
		}

		return nil, queryErr("by id", err)
	}

	p, err := row.toPrompt()
	if err != nil {
		return nil, queryErr("by id", err)
	}

	return p, nil
}

// Count returns the number of stored prompts.
func (r *SQLite) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM prompts"); err != nil {
		return 0, queryErr("count", err)
	}

	return n, nil
}

// Insert stores a new prompt. created_at and updated_at are set to now,
// last_used stays null and sort_order takes the column default.
func (r *SQLite) Insert(ctx context.Context, in prompt.Input) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timestamp()
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO prompts (title, content, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.Title, in.Content, in.Tags, now, now,
	)
	if err != nil {
		return 0, writeErr("insert", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeErr("insert", err)
	}

	slog.Debug("inserted record", "id", id)

	return id, nil
}

// Update overwrites title, content and tags and bumps updated_at. A missing
// id is not an error.
func (r *SQLite) Update(ctx context.Context, id int64, in prompt.Input) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.DB.ExecContext(ctx,
		"UPDATE prompts SET title = ?, content = ?, tags = ?, updated_at = ? WHERE id = ?",
		in.Title, in.Content, in.Tags, r.timestamp(), id,
	)
	if err != nil {
		return writeErr("update", err)
	}

	logAffected("updated record", id, res)

	return nil
}

// Delete removes the prompt with the given id, if present.
func (r *SQLite) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.DB.ExecContext(ctx, "DELETE FROM prompts WHERE id = ?", id)
	if err != nil {
		return writeErr("delete", err)
	}

	logAffected("deleted record", id, res)

	return nil
}

// TouchLastUsed sets last_used to now. A missing id is not an error.
func (r *SQLite) TouchLastUsed(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.DB.ExecContext(ctx, "UPDATE prompts SET last_used = ? WHERE id = ?", r.timestamp(), id)
	if err != nil {
		return writeErr("touch last used", err)
	}

	logAffected("updated last used", id, res)

	return nil
}

// Reorder sets sort_order to each id's position in ids, all or nothing.
// Ids not listed keep their value; unknown ids are ignored.
func (r *SQLite) Reorder(ctx context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slog.Debug("reordering records", "count", len(ids))

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, "UPDATE prompts SET sort_order = ? WHERE id = ?")
		if err != nil {
			return fmt.Errorf("prepared statement: %w", err)
		}

		defer func() {
			if err := stmt.Close(); err != nil {
				slog.Error("reorder: closing stmt", "error", err)
			}
		}()

		for i, id := range ids {
			if _, err := stmt.ExecContext(ctx, i, id); err != nil {
				return fmt.Errorf("setting order of id %d: %w", id, err)
			}
		}

		return nil
	})
	if err != nil {
		return writeErr("reorder", err)
	}

	return nil
}

// bySQL runs q and converts every row. The caller holds mu.
func (r *SQLite) bySQL(ctx context.Context, q string, args ...any) ([]*prompt.Prompt, error) {
	var rows []promptRow
	if err := r.DB.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	ps := make([]*prompt.Prompt, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toPrompt()
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}

	return ps, nil
}

func logAffected(msg string, id int64, res sql.Result) {
	n, err := res.RowsAffected()
	if err != nil {
		slog.Warn(msg, "id", id, "error", err)
		return
	}

	slog.Debug(msg, "id", id, "affected", n)
}
