package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oksasatya/taskquest/internal/domain/repository"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Store keeps each document as an indented JSON file below Root.
// Key "alice/metadata" maps to Root/alice/metadata.json; prefixes map to directories.
type Store struct {
	Root string
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", root, err)
	}
	return &Store{Root: root}, nil
}

func (s *Store) dirPath(prefix string) (string, error) {
	if prefix == "" {
		return s.Root, nil
	}
	clean := path.Clean(prefix)
	if clean != prefix || strings.HasPrefix(clean, "/") || clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(clean, "/../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, prefix)
	}
	return filepath.Join(s.Root, filepath.FromSlash(clean)), nil
}

func (s *Store) filePath(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	p, err := s.dirPath(key)
	if err != nil {
		return "", err
	}
	return p + ".json", nil
}

func (s *Store) Read(_ context.Context, key string, dst any) (bool, error) {
	p, err := s.filePath(key)
	if err != nil {
		return false, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// corrupt documents read as missing
		return false, nil
	}
	return true, nil
}

// Write replaces the document through a temp file in the same directory.
func (s *Store) Write(_ context.Context, key string, v any) error {
	p, err := s.filePath(key)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Children(_ context.Context, prefix string) ([]string, error) {
	dir, err := s.dirPath(prefix)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func (s *Store) Exists(_ context.Context, prefix string) (bool, error) {
	dir, err := s.dirPath(prefix)
	if err != nil {
		return false, err
	}
	fi, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", dir, err)
	}
	return fi.IsDir(), nil
}

func (s *Store) Move(_ context.Context, from, to string) error {
	src, err := s.dirPath(from)
	if err != nil {
		return err
	}
	dst, err := s.dirPath(to)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("move %s: %w", to, fs.ErrExist)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move %s to %s: %w", from, to, err)
	}
	return nil
}

var _ repository.BlobStore = (*Store)(nil)
