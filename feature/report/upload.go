package report

import (
	"context"

	"reconciler/core/storage"
)

// Uploader stores reports in a bucket under a prefix.
type Uploader struct {
	client storage.Client
	bucket string
	prefix string
}

// NewUploader creates an uploader.
func NewUploader(client storage.Client, bucket, prefix string) *Uploader {
	return &Uploader{client: client, bucket: bucket, prefix: prefix}
}

// Upload stores data as name under the prefix, creating the bucket if needed,
// and returns the object name.
func (u *Uploader) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := storage.EnsureBucket(ctx, u.client, u.bucket); err != nil {
		return "", err
	}
	object := storage.ObjectName(u.prefix, name)
	if _, err := storage.PutBytes(ctx, u.client, u.bucket, object, data, contentType); err != nil {
		return "", err
	}
	return object, nil
}
