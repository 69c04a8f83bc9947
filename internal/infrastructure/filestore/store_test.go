package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/taskquest/internal/domain/repository"
	"github.com/oksasatya/taskquest/internal/infrastructure/blobtest"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	return s
}

func TestStore_BlobStoreBehavior(t *testing.T) {
	blobtest.Run(t, func(t *testing.T) repository.BlobStore { return newStore(t) })
}

func TestStore_WriteRead(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Write(ctx, "alice/metadata", doc{Name: "a", Count: 2}))

	var got doc
	found, err := s.Read(ctx, "alice/metadata", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, doc{Name: "a", Count: 2}, got)

	_, err = os.Stat(filepath.Join(s.Root, "alice", "metadata.json"))
	require.NoError(t, err)
}

func TestStore_ReadMissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	var got doc
	found, err := s.Read(ctx, "nobody/metadata", &got)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, os.MkdirAll(filepath.Join(s.Root, "bob"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Root, "bob", "metadata.json"), []byte("{not json"), 0o644))
	found, err = s.Read(ctx, "bob/metadata", &got)
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_ChildrenListsDirectoriesOnly(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Write(ctx, "bob/metadata", doc{}))
	require.NoError(t, s.Write(ctx, "alice/metadata", doc{}))
	require.NoError(t, s.Write(ctx, "comments", []doc{}))

	got, err := s.Children(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob"}, got)
}

func TestStore_ChildrenOfMissingRoot(t *testing.T) {
	s := &Store{Root: filepath.Join(t.TempDir(), "absent")}
	got, err := s.Children(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestStore_ExistsAndMove(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Write(ctx, "alice/tasks", []doc{{Name: "t"}}))

	ok, err := s.Exists(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Move(ctx, "alice", "alicia"))

	ok, err = s.Exists(ctx, "alice")
	require.NoError(t, err)
	require.False(t, ok)

	var tasks []doc
	found, err := s.Read(ctx, "alicia/tasks", &tasks)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, tasks, 1)
}

func TestStore_MoveOntoExistingFails(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Write(ctx, "a/metadata", doc{}))
	require.NoError(t, s.Write(ctx, "b/metadata", doc{}))

	err := s.Move(ctx, "a", "b")
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrExist))
}

func TestStore_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, key := range []string{"../escape", "a/../../b", "/abs", "a//b"} {
		err := s.Write(ctx, key, doc{})
		require.ErrorIs(t, err, ErrInvalidKey, key)
	}
	_, err := s.Exists(ctx, "..")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Write(ctx, "alice/metadata", doc{Name: "x"}))
	require.NoError(t, s.Write(ctx, "alice/metadata", doc{Name: "y"}))

	entries, err := os.ReadDir(filepath.Join(s.Root, "alice"))
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.HasPrefix(e.Name(), ".tmp-"), e.Name())
	}
}
