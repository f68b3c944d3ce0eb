// Package storage wraps the S3 bucket that holds in-flight scans and the PDFs
// Textract reads from.
package storage

import "context"

// ObjectStore defines the blob operations the pipeline needs. It's abstract so
// tests can inject a fake and so S3 could be swapped for MinIO or similar.
type ObjectStore interface {
	// UploadFile uploads the local file at path under key.
	UploadFile(ctx context.Context, path, key string) error
	// DeleteKeys removes keys in bulk and returns how many were deleted.
	DeleteKeys(ctx context.Context, keys []string) (int, error)
	// ListKeys returns every key under prefix, following pagination. The
	// pipeline itself never lists; this exists for auditing leftover keys
	// after a run with retained failures.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
