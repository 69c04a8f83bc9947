package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhotoStore_SaveAndDelete(t *testing.T) {
	ctx := context.Background()
	static := t.TempDir()
	p, err := NewPhotoStore(static)
	require.NoError(t, err)

	ref, err := p.Save(ctx, "alice_1.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "profile_pictures/alice_1.png", ref)

	b, err := os.ReadFile(filepath.Join(static, "profile_pictures", "alice_1.png"))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(b))

	require.NoError(t, p.Delete(ctx, ref))
	_, err = os.Stat(filepath.Join(static, "profile_pictures", "alice_1.png"))
	require.True(t, os.IsNotExist(err))

	// already gone
	require.NoError(t, p.Delete(ctx, ref))
}

func TestPhotoStore_IgnoresForeignReferences(t *testing.T) {
	ctx := context.Background()
	static := t.TempDir()
	p, err := NewPhotoStore(static)
	require.NoError(t, err)

	outside := filepath.Join(static, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	require.NoError(t, p.Delete(ctx, "default_dp.png"))
	require.NoError(t, p.Delete(ctx, "profile_pictures/../keep.txt"))
	_, err = os.Stat(outside)
	require.NoError(t, err)
}

func TestPhotoStore_RejectsNestedNames(t *testing.T) {
	p, err := NewPhotoStore(t.TempDir())
	require.NoError(t, err)
	_, err = p.Save(context.Background(), "../x.png", "image/png", strings.NewReader(""))
	require.ErrorIs(t, err, ErrInvalidKey)
}
