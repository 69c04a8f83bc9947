package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oksasatya/taskquest/internal/domain/repository"
)

// PhotoDir is the subtree of the static directory holding uploads.
const PhotoDir = "profile_pictures"

// PhotoStore writes uploads below StaticDir/profile_pictures and returns
// references relative to StaticDir, e.g. "profile_pictures/alice_ab12.png".
type PhotoStore struct {
	StaticDir string
}

func NewPhotoStore(staticDir string) (*PhotoStore, error) {
	dir := filepath.Join(staticDir, PhotoDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &PhotoStore{StaticDir: staticDir}, nil
}

func (p *PhotoStore) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, name)
	}
	ref := path.Join(PhotoDir, name)
	f, err := os.Create(filepath.Join(p.StaticDir, filepath.FromSlash(ref)))
	if err != nil {
		return "", fmt.Errorf("create photo: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write photo: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return ref, nil
}

func (p *PhotoStore) Delete(_ context.Context, ref string) error {
	clean := path.Clean(ref)
	if !strings.HasPrefix(clean, PhotoDir+"/") {
		return nil
	}
	err := os.Remove(filepath.Join(p.StaticDir, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete photo %s: %w", ref, err)
	}
	return nil
}

var _ repository.PhotoStore = (*PhotoStore)(nil)
