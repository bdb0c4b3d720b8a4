package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_WriteRead(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "attendance/records.json", strings.NewReader(`[1]`)))
	require.NoError(t, s.Write(ctx, "attendance/records.json", strings.NewReader(`[1,2]`)))

	rc, err := s.Read(ctx, "attendance/records.json")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	entries, err := os.ReadDir(filepath.Join(s.basePath, "attendance"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")

	exists, err := s.Exists(ctx, "attendance/records.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorage_ReadMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read(context.Background(), "missing.json")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalStorage_StaysInsideBasePath(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(base, "data"))
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "../escape.json", strings.NewReader("x")))

	_, err = os.Stat(filepath.Join(base, "escape.json"))
	assert.True(t, os.IsNotExist(err))
	exists, err := s.Exists(ctx, "escape.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "a.json", strings.NewReader("{}")))
	require.NoError(t, s.Delete(ctx, "a.json"))
	require.NoError(t, s.Delete(ctx, "a.json"))

	exists, err := s.Exists(ctx, "a.json")
	require.NoError(t, err)
	assert.False(t, exists)
}
