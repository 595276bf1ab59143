package local

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	location, err := store.Put(ctx, "user-1/stmt-1.pdf", "application/pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(location, "file://"))

	data, err := store.Get(ctx, location)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
}

func TestFileStore_KeysStayInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)

	location, err := store.Put(context.Background(), "../../escape.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)
	assert.Contains(t, location, filepath.ToSlash(root))
}

func TestFileStore_GetErrors(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "gs://bucket/object")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = store.Get(ctx, "file:///etc/passwd")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = store.Get(ctx, "file://"+filepath.ToSlash(filepath.Join(store.root, "missing.pdf")))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
