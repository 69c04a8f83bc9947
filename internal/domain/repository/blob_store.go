package repository

import "context"

// BlobStore persists JSON documents under slash-separated logical keys
// such as "alice/metadata". A prefix groups the documents of one owner.
type BlobStore interface {
	// Read decodes the document at key into dst. Missing or corrupt
	// documents report found=false without an error.
	Read(ctx context.Context, key string, dst any) (found bool, err error)
	Write(ctx context.Context, key string, v any) error
	// Children lists the direct sub-prefixes of prefix ("" is the root).
	Children(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, prefix string) (bool, error)
	// Move renames every document under from to live under to.
	Move(ctx context.Context, from, to string) error
}
