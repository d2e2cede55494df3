// Package docarchive stores copies of imported source documents.
package docarchive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"

	"github.com/campushelp/faqbot/internal/domain/faq"
)

// MinioArchive writes imported documents to an S3-compatible bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive constructs the archive. The bucket must already exist or
// be creatable by the credentials in use.
func NewMinioArchive(client *minio.Client, bucket string) *MinioArchive {
	return &MinioArchive{client: client, bucket: bucket}
}

// EnsureBucket creates the bucket when absent.
func (a *MinioArchive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// Store implements faq.Archive.
func (a *MinioArchive) Store(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

var _ faq.Archive = (*MinioArchive)(nil)
