// Package storage persists scorecard photos in an S3-compatible bucket.
package storage

import (
	"context"
	"io"
)

// UploadResult describes where a stored scorecard photo ended up.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader abstracts the bucket so the score service can be tested
// without network access.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}
