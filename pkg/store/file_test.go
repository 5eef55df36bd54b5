package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fumen-tools/fumetree/pkg/errors"
	"github.com/fumen-tools/fumetree/pkg/pagetree"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestFileStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	rec := Record{Name: "opener", Tree: pagetree.NewLinear(3), Comment: "TKI study"}
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Load(ctx, "opener")
	require.NoError(t, err)
	assert.Equal(t, "opener", got.Name)
	assert.Equal(t, "TKI study", got.Comment)
	assert.Equal(t, 3, got.Tree.Len())
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestFileStoreSavePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	require.NoError(t, s.Save(ctx, Record{Name: "opener", Tree: pagetree.NewLinear(1)}))
	first, err := s.Load(ctx, "opener")
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, Record{Name: "opener", Tree: pagetree.NewLinear(2)}))
	second, err := s.Load(ctx, "opener")
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, 2, second.Tree.Len())
}

func TestFileStoreLoadMissing(t *testing.T) {
	s := newFileStore(t)

	_, err := s.Load(context.Background(), "no-such-tree")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTreeNotFound))
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Save(ctx, Record{Name: "zeta", Tree: pagetree.NewLinear(1)}))
	require.NoError(t, s.Save(ctx, Record{Name: "alpha", Tree: pagetree.NewLinear(1)}))

	names, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	require.NoError(t, s.Save(ctx, Record{Name: "opener", Tree: pagetree.NewLinear(1)}))
	require.NoError(t, s.Delete(ctx, "opener"))

	_, err := s.Load(ctx, "opener")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTreeNotFound))

	// deleting again is fine
	require.NoError(t, s.Delete(ctx, "opener"))
}

func TestFileStoreRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	for _, name := range []string{"", "../escape", "a//b"} {
		err := s.Save(ctx, Record{Name: name, Tree: pagetree.NewLinear(1)})
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidName), "name %q", name)
	}
}
