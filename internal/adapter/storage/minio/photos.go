// Package minio stores client photos in an S3-compatible bucket.
package minio

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config carries the connection parameters for the photo bucket.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	UseSSL    bool
}

// PhotoStore uploads client photos and returns a stable object URL.
type PhotoStore struct {
	client *minio.Client
	bucket string
}

// NewPhotoStore creates a PhotoStore connected to the configured bucket.
func NewPhotoStore(cfg Config) (*PhotoStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object storage: %w", err)
	}

	return &PhotoStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the photo bucket if it does not exist.
func (s *PhotoStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Store uploads a photo under the client's folder and returns its URL. The
// kind distinguishes the client portrait from the ID document photo.
func (s *PhotoStore) Store(ctx context.Context, clientName, kind, filename, contentType string, r io.Reader, size int64) (string, error) {
	if size <= 0 {
		size = -1
	}

	ext := path.Ext(filename)
	key := fmt.Sprintf("clientes/%s/%s-%d%s", sanitizeFolder(clientName), kind, time.Now().UnixNano(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// sanitizeFolder keeps object keys free of path separators and spaces.
func sanitizeFolder(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "-")
	return replacer.Replace(name)
}
