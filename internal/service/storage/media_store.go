package storage

import (
	"context"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// MediaStore deletes media blobs from the bucket backing family media
// uploads. Paths are the storage_path values recorded on media rows.
type MediaStore struct {
	client *gcs.Client
	bucket string
}

func NewMediaStore(ctx context.Context, bucket, credentialsFile string) (*MediaStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &MediaStore{
		client: client,
		bucket: bucket,
	}, nil
}

// Remove deletes a single object. An already-missing object is treated as
// deleted so retried pipelines do not trip over their own earlier progress.
func (s *MediaStore) Remove(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", path, err)
	}
	return nil
}

func (s *MediaStore) Close() error {
	return s.client.Close()
}
