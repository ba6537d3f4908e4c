// Package storage keeps file ciphertext in a gocloud.dev blob bucket.
package storage

import (
	"context"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	_ "gocloud.dev/blob/s3blob"   // s3:// buckets
	"gocloud.dev/gcerrors"

	apperrors "github.com/allisson/filevault/internal/errors"
)

// ErrBlobNotFound indicates no object exists under the key.
var ErrBlobNotFound = apperrors.Wrap(apperrors.ErrNotFound, "blob not found")

// BlobStore stores opaque bytes by key in a bucket.
type BlobStore struct {
	bucket *blob.Bucket
}

// OpenBucket opens a bucket from a URL such as
// "file:///var/lib/filevault/blobs?create_dir=true", "mem://" or "s3://bucket?region=us-east-1".
func OpenBucket(ctx context.Context, url string) (*blob.Bucket, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to open blob bucket %q", url)
	}
	return bucket, nil
}

// NewBlobStore creates a BlobStore over an open bucket. The caller owns the bucket.
func NewBlobStore(bucket *blob.Bucket) *BlobStore {
	return &BlobStore{bucket: bucket}
}

// Put writes data under key, replacing any existing object.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	opts := &blob.WriterOptions{ContentType: "application/octet-stream"}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return apperrors.Wrapf(err, "failed to write blob %q", key)
	}
	return nil
}

// Get reads the object under key. A missing object returns ErrBlobNotFound.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrBlobNotFound
		}
		return nil, apperrors.Wrapf(err, "failed to read blob %q", key)
	}
	return data, nil
}

// Delete removes the object under key. Missing objects are not an error.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}
		return apperrors.Wrapf(err, "failed to delete blob %q", key)
	}
	return nil
}

// Ping checks that the bucket is reachable.
func (s *BlobStore) Ping(ctx context.Context) error {
	if _, err := s.bucket.IsAccessible(ctx); err != nil {
		return apperrors.Wrap(err, "blob bucket is not accessible")
	}
	return nil
}
