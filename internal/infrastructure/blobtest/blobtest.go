// Package blobtest holds the behavior every repository.BlobStore backend
// must share. Backend packages run it from their own tests.
package blobtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/taskquest/internal/domain/repository"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Run exercises a fresh store from newStore in each subtest.
func Run(t *testing.T, newStore func(t *testing.T) repository.BlobStore) {
	t.Run("WriteReadOverwrite", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.Write(ctx, "alice/metadata", doc{Name: "a", Count: 1}))
		require.NoError(t, s.Write(ctx, "alice/metadata", doc{Name: "a", Count: 2}))

		var got doc
		found, err := s.Read(ctx, "alice/metadata", &got)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, doc{Name: "a", Count: 2}, got)
	})

	t.Run("ReadMissing", func(t *testing.T) {
		var got doc
		found, err := newStore(t).Read(context.Background(), "nobody/metadata", &got)
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("ChildrenSkipsRootDocuments", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		got, err := s.Children(ctx, "")
		require.NoError(t, err)
		require.Empty(t, got)

		require.NoError(t, s.Write(ctx, "bob/metadata", doc{}))
		require.NoError(t, s.Write(ctx, "bob/tasks", []doc{}))
		require.NoError(t, s.Write(ctx, "alice/metadata", doc{}))
		require.NoError(t, s.Write(ctx, "comments", []doc{}))

		got, err = s.Children(ctx, "")
		require.NoError(t, err)
		require.Equal(t, []string{"alice", "bob"}, got)
	})

	t.Run("ExistsMatchesWholePrefix", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Write(ctx, "alice/metadata", doc{}))

		for name, want := range map[string]bool{"alice": true, "ali": false, "alice2": false, "bob": false} {
			ok, err := s.Exists(ctx, name)
			require.NoError(t, err)
			require.Equal(t, want, ok, name)
		}
	})

	t.Run("MoveCarriesEveryDocument", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Write(ctx, "alice/metadata", doc{Name: "meta"}))
		require.NoError(t, s.Write(ctx, "alice/tasks", []doc{{Name: "t"}}))
		require.NoError(t, s.Write(ctx, "alicex/metadata", doc{Name: "other"}))

		require.NoError(t, s.Move(ctx, "alice", "alicia"))

		ok, err := s.Exists(ctx, "alice")
		require.NoError(t, err)
		require.False(t, ok)

		var meta doc
		found, err := s.Read(ctx, "alicia/metadata", &meta)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "meta", meta.Name)

		var tasks []doc
		found, err = s.Read(ctx, "alicia/tasks", &tasks)
		require.NoError(t, err)
		require.True(t, found)
		require.Len(t, tasks, 1)

		found, err = s.Read(ctx, "alicex/metadata", &meta)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "other", meta.Name)

		got, err := s.Children(ctx, "")
		require.NoError(t, err)
		require.Equal(t, []string{"alicex", "alicia"}, got)
	})

	t.Run("MoveOntoExistingFails", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Write(ctx, "a/metadata", doc{Name: "a"}))
		require.NoError(t, s.Write(ctx, "b/metadata", doc{Name: "b"}))

		require.Error(t, s.Move(ctx, "a", "b"))

		var got doc
		found, err := s.Read(ctx, "a/metadata", &got)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "a", got.Name)
	})
}
