package repository

import (
	"context"
	"io"
)

// PhotoStore keeps uploaded profile pictures.
type PhotoStore interface {
	// Save stores the image under name and returns the reference kept in metadata.
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	// Delete removes a reference previously returned by Save. Unknown references are ignored.
	Delete(ctx context.Context, ref string) error
}
