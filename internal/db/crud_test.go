package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/mateconpizza/gp/internal/prompt"
)

func ids(ps []*prompt.Prompt) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}

	return out
}

func TestInsertRoundTrip(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	in := prompt.Input{
		Title:   "Explain code",
		Content: "Explain the following code:\n\n```go\nfmt.Println(1)\n```",
		Tags:    "  dev\tgo  explain ",
	}

	id, err := r.Insert(t.Context(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	ps, err := r.List(t.Context())
	require.NoError(t, err)
	require.Len(t, ps, 1)

	p := ps[0]
	assert.Equal(t, id, p.ID)
	assert.Equal(t, in.Title, p.Title)
	assert.Equal(t, in.Content, p.Content)
	assert.Equal(t, []string{"dev", "go", "explain"}, p.Tags)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Nil(t, p.LastUsed)
	assert.Zero(t, p.SortOrder)
}

func TestInsertEmptyTags(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	_, err := r.Insert(t.Context(), prompt.Input{Title: "t", Content: "c"})
	require.NoError(t, err)

	ps, err := r.List(t.Context())
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.NotNil(t, ps[0].Tags)
	assert.Empty(t, ps[0].Tags)
}

func TestInsertDuplicatesAllowed(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	in := testInput(0)
	id1, err := r.Insert(t.Context(), in)
	require.NoError(t, err)
	id2, err := r.Insert(t.Context(), in)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	n, err := r.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIDsNotReused(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 3)
	require.NoError(t, r.Delete(t.Context(), 3))

	id, err := r.Insert(t.Context(), testInput(4))
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
}

func TestListOrderByLastUsed(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 3)
	ctx := t.Context()

	// 1 never used, 2 used at t1, 3 used at t2 > t1.
	require.NoError(t, r.TouchLastUsed(ctx, 2))
	require.NoError(t, r.TouchLastUsed(ctx, 3))

	ps, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, ids(ps))
	assert.Nil(t, ps[2].LastUsed)
	assert.True(t, ps[0].LastUsed.After(*ps[1].LastUsed))
}

func TestListOrderByCreatedAt(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 4)

	ps, err := r.List(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(ps))
}

func TestListSortOrderFirst(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 3)
	ctx := t.Context()
	require.NoError(t, r.TouchLastUsed(ctx, 3))
	require.NoError(t, r.Reorder(ctx, []int64{1, 3, 2}))

	ps, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 2}, ids(ps))
	for i, p := range ps {
		assert.Equal(t, int64(i), p.SortOrder)
	}
}

func TestListEmpty(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	ps, err := r.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestListMalformedTimestamp(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 2)
	ctx := t.Context()

	_, err := r.DB.ExecContext(ctx, "UPDATE prompts SET created_at = 'yesterday' WHERE id = 1")
	require.NoError(t, err)

	ps, err := r.List(ctx)
	assert.Nil(t, ps)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindQuery))
	assert.ErrorIs(t, err, ErrRecordMalformed)

	_, err = r.Search(ctx, "")
	assert.ErrorIs(t, err, ErrRecordMalformed)

	// the store stays usable.
	require.NoError(t, r.Delete(ctx, 1))
	ps, err = r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(ps))
}

func TestListMalformedLastUsed(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 1)
	_, err := r.DB.ExecContext(t.Context(), "UPDATE prompts SET last_used = '2024-13-45' WHERE id = 1")
	require.NoError(t, err)

	_, err = r.List(t.Context())
	assert.True(t, IsKind(err, KindQuery))
	assert.ErrorIs(t, err, ErrRecordMalformed)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	ctx := t.Context()
	inputs := []prompt.Input{
		{Title: "Review", Content: "Review this pull request", Tags: "dev review"},
		{Title: "Translate", Content: "Translate to French", Tags: "lang"},
		{Title: "Summary", Content: "Summarize the review notes", Tags: "writing uniquetag"},
	}
	for _, in := range inputs {
		_, err := r.Insert(ctx, in)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{name: "empty query matches all", query: "", want: []int64{3, 2, 1}},
		{name: "tag only in one row", query: "uniquetag", want: []int64{3}},
		{name: "title", query: "Translate", want: []int64{2}},
		{name: "content and tags across rows", query: "review", want: []int64{3, 1}},
		{name: "no match", query: "nothing-here", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := r.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(ps))
		})
	}
}

func TestSearchKeepsListOrder(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 3)
	ctx := t.Context()
	require.NoError(t, r.Reorder(ctx, []int64{2, 1, 3}))

	ps, err := r.Search(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3}, ids(ps))
}

func TestByID(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 2)

	p, err := r.ByID(t.Context(), 2)
	require.NoError(t, err)
	assert.Equal(t, testInput(1).Title, p.Title)

	p, err = r.ByID(t.Context(), 99)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 2)
	ctx := t.Context()
	require.NoError(t, r.TouchLastUsed(ctx, 1))
	require.NoError(t, r.Reorder(ctx, []int64{2, 1}))

	before, err := r.ByID(ctx, 1)
	require.NoError(t, err)

	in := prompt.Input{Title: "New title", Content: "New content", Tags: "new tags"}
	require.NoError(t, r.Update(ctx, 1, in))

	after, err := r.ByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, in.Title, after.Title)
	assert.Equal(t, in.Content, after.Content)
	assert.Equal(t, []string{"new", "tags"}, after.Tags)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, before.LastUsed, after.LastUsed)
	assert.Equal(t, before.SortOrder, after.SortOrder)
}

func TestUpdateMissingID(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 3)
	ctx := t.Context()

	err := r.Update(ctx, 42, testInput(9))
	assert.NoError(t, err)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = r.ByID(ctx, 42)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestTouchLastUsed(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 1)
	ctx := t.Context()

	before, err := r.ByID(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, r.TouchLastUsed(ctx, 1))
	require.NoError(t, r.TouchLastUsed(ctx, 404))

	after, err := r.ByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, after.LastUsed)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 3)
	ctx := t.Context()

	require.NoError(t, r.Delete(ctx, 2))
	ps, err := r.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids(ps), int64(2))
	assert.Len(t, ps, 2)

	// already gone.
	assert.NoError(t, r.Delete(ctx, 2))
	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReorderIdempotent(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 5)
	ctx := t.Context()
	require.NoError(t, r.TouchLastUsed(ctx, 2))

	before, err := r.List(ctx)
	require.NoError(t, err)

	require.NoError(t, r.Reorder(ctx, ids(before)))
	after, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids(before), ids(after))

	require.NoError(t, r.Reorder(ctx, ids(after)))
	again, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids(after), ids(again))
}

func TestReorderPartialAndUnknownIDs(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 3)
	ctx := t.Context()
	require.NoError(t, r.Reorder(ctx, []int64{1, 2, 3}))

	// 3 keeps sort_order 2, 99 does not exist.
	require.NoError(t, r.Reorder(ctx, []int64{2, 99, 1}))

	want := map[int64]int64{2: 0, 1: 2, 3: 2}
	for id, order := range want {
		p, err := r.ByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, order, p.SortOrder, "id %d", id)
	}

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestReorderEmpty(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 2)
	assert.NoError(t, r.Reorder(t.Context(), nil))
}

func TestReorderAtomic(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 3)
	ctx := t.Context()
	require.NoError(t, r.Reorder(ctx, []int64{1, 2, 3}))

	// any sort_order change on id 2 aborts.
	_, err := r.DB.ExecContext(ctx, `
		CREATE TRIGGER fail_reorder BEFORE UPDATE OF sort_order ON prompts
		WHEN NEW.id = 2
		BEGIN
			SELECT RAISE(ABORT, 'forced failure');
		END;`)
	require.NoError(t, err)

	err = r.Reorder(ctx, []int64{3, 1, 2})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindWrite))
	assert.Contains(t, err.Error(), "forced failure")

	ps, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(ps))
	for i, p := range ps {
		assert.Equal(t, int64(i), p.SortOrder, "id %d", p.ID)
	}
}

func TestReorderCanceledContext(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 2)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := r.Reorder(ctx, []int64{2, 1})
	assert.True(t, IsKind(err, KindWrite))

	ps, err := r.List(t.Context())
	require.NoError(t, err)
	for _, p := range ps {
		assert.Zero(t, p.SortOrder)
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	ctx := t.Context()
	const n = 40

	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			id, err := r.Insert(ctx, prompt.Input{Title: fmt.Sprintf("t%d", i), Content: "c", Tags: "x"})
			if err != nil {
				return err
			}
			if err := r.TouchLastUsed(ctx, id); err != nil {
				return err
			}
			_, err = r.List(ctx)
			return err
		})
	}
	require.NoError(t, g.Wait())

	count, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}
