package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/taskquest/internal/domain/repository"
)

var errTargetExists = errors.New("target prefix already exists")

// BlobStore keeps documents as jsonb rows keyed by their logical path.
type BlobStore struct {
	pool *pgxpool.Pool
}

func NewBlobStore(pool *pgxpool.Pool) *BlobStore {
	return &BlobStore{pool: pool}
}

func dirPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func (s *BlobStore) Read(ctx context.Context, key string, dst any) (bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM blobs WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *BlobStore) Write(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO blobs (key, doc, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`, key, string(b))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *BlobStore) Children(ctx context.Context, prefix string) ([]string, error) {
	p := dirPrefix(prefix)
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT split_part(substr(key, $2::int), '/', 1) AS child
		FROM blobs
		WHERE starts_with(key, $1::text) AND strpos(substr(key, $2::int), '/') > 0
		ORDER BY child
	`, p, len(p)+1)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	return out, nil
}

func (s *BlobStore) Exists(ctx context.Context, prefix string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blobs WHERE starts_with(key, $1::text))`, dirPrefix(prefix)).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists %q: %w", prefix, err)
	}
	return ok, nil
}

// Move rewrites every key under from inside one transaction.
func (s *BlobStore) Move(ctx context.Context, from, to string) error {
	src, dst := dirPrefix(from), dirPrefix(to)
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var taken bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blobs WHERE starts_with(key, $1::text))`, dst).Scan(&taken); err != nil {
		return fmt.Errorf("move %s: %w", from, err)
	}
	if taken {
		return fmt.Errorf("move %s to %s: %w", from, to, errTargetExists)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE blobs SET key = $2::text || substr(key, $3::int), updated_at = now()
		WHERE starts_with(key, $1::text)
	`, src, dst, len(src)+1); err != nil {
		return fmt.Errorf("move %s to %s: %w", from, to, err)
	}
	return tx.Commit(ctx)
}

var _ repository.BlobStore = (*BlobStore)(nil)
