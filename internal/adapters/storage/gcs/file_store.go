// Package gcs stores statement files in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/ports"
	"google.golang.org/api/option"
)

const uploadTimeout = 2 * time.Minute

// FileStore writes objects into one bucket. Locations are gs:// URIs.
type FileStore struct {
	client *storage.Client
	bucket string
}

var _ ports.FileStore = (*FileStore)(nil)

// NewFileStore uses Application Default Credentials. A non-empty endpoint points
// the client at an emulator without authentication.
func NewFileStore(ctx context.Context, bucket string, endpoint string) (*FileStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs: bucket is required")
	}
	var opts []option.ClientOption
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: create storage client: %w", err)
	}
	return &FileStore{client: client, bucket: bucket}, nil
}

// Close releases the storage client.
func (s *FileStore) Close() error {
	return s.client.Close()
}

func (s *FileStore) Put(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs: write %s: %w", key, err)
	}
	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs: finalize %s: %w", key, err)
	}
	return FormatURI(s.bucket, key), nil
}

func (s *FileStore) Get(ctx context.Context, location string) ([]byte, error) {
	bucket, object, err := ParseURI(location)
	if err != nil {
		return nil, err
	}
	rc, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, location)
	}
	if err != nil {
		return nil, fmt.Errorf("gcs: open %s: %w", location, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("gcs: read %s: %w", location, err)
	}
	return data, nil
}

// FormatURI returns gs://bucket/object.
func FormatURI(bucket, object string) string {
	return "gs://" + bucket + "/" + object
}

// ParseURI splits gs://bucket/object.
func ParseURI(uri string) (bucket string, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("%w: invalid GCS URI: %s", apperrors.ErrValidation, uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, "gs://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: invalid GCS URI (no object path): %s", apperrors.ErrValidation, uri)
	}
	return parts[0], parts[1], nil
}
