package gcs

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/taskquest/internal/domain/repository"
	"github.com/oksasatya/taskquest/pkg/helpers"
)

const photoDir = "profile_pictures"

// PhotoStore uploads profile pictures to a bucket; references are public URLs.
type PhotoStore struct {
	client *storage.Client
	bucket string
}

func NewPhotoStore(client *storage.Client, bucket string) (*PhotoStore, error) {
	if client == nil || bucket == "" {
		return nil, errors.New("gcs not configured")
	}
	return &PhotoStore{client: client, bucket: bucket}, nil
}

func (p *PhotoStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, p.client, p.bucket, path.Join(photoDir, name), contentType, r)
}

func (p *PhotoStore) Delete(ctx context.Context, ref string) error {
	object, ok := objectFromURL(p.bucket, ref)
	if !ok {
		return nil
	}
	return helpers.DeleteObject(ctx, p.client, p.bucket, object)
}

// objectFromURL recovers the object path from a reference produced by Save.
func objectFromURL(bucket, ref string) (string, bool) {
	base := helpers.PublicURL(bucket, "")
	if !strings.HasPrefix(ref, base) {
		return "", false
	}
	object := strings.TrimPrefix(ref, base)
	if !strings.HasPrefix(object, photoDir+"/") {
		return "", false
	}
	return object, true
}

var _ repository.PhotoStore = (*PhotoStore)(nil)
