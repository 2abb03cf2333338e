package storage

import (
	"context"
	"io"
)

// UploadResult describes one stored attachment. URL is the reference embedded
// in the registration row; ID is the store's authoritative identifier and the
// handle Delete accepts.
type UploadResult struct {
	ID   string
	Name string
	URL  string
}

// FileUploader persists identification documents out-of-band of the
// registration row. A failed upload aborts the whole registration; files
// orphaned by later pipeline failures are collected out of band via Delete.
type FileUploader interface {
	Upload(ctx context.Context, name string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, id string) error
}
