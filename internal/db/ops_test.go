package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup(t *testing.T) {
	t.Parallel()
	fixed := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	r := testPopulatedDB(t, 3)
	r.now = func() time.Time { return fixed }

	dir := filepath.Join(t.TempDir(), "backup")
	dest, err := r.Backup(t.Context(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240203-040506_prompts.db"), dest)
	assert.FileExists(t, dest)

	list, err := ListBackups(dir, r.Name())
	require.NoError(t, err)
	assert.Equal(t, []string{dest}, list)

	b, err := Open(t.Context(), dest)
	require.NoError(t, err)
	n, err := b.Count(t.Context())
	b.Close()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// same second, same name.
	_, err = r.Backup(t.Context(), dir)
	assert.ErrorIs(t, err, ErrBackupExists)
	assert.True(t, IsKind(err, KindWrite))
}

func TestBackupMissingSource(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	require.NoError(t, os.Remove(r.Cfg.Fullpath()))

	_, err := r.Backup(t.Context(), t.TempDir())
	assert.ErrorIs(t, err, ErrDBNotFound)
	assert.True(t, IsKind(err, KindWrite))
}

func TestVacuum(t *testing.T) {
	t.Parallel()
	r := testPopulatedDB(t, 5)
	require.NoError(t, r.Delete(t.Context(), 1))
	assert.NoError(t, r.Vacuum(t.Context()))
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()
	base := errors.New("boom")
	tests := []struct {
		err  error
		kind Kind
		msg  string
	}{
		{err: initErr("open", base), kind: KindInit, msg: "open: init error: boom"},
		{err: queryErr("list", base), kind: KindQuery, msg: "list: query error: boom"},
		{err: writeErr("reorder", base), kind: KindWrite, msg: "reorder: write error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.True(t, IsKind(wrapped, tt.kind))
			assert.ErrorIs(t, wrapped, base)
			assert.Equal(t, tt.msg, tt.err.Error())
		})
	}

	assert.False(t, IsKind(base, KindInit))
	assert.Equal(t, "unknown", Kind(0).String())
}
