package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
// Objects stay private; reads go through presigned URLs only.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// MinioOptions configures NewMinioStorage.
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// NewMinioStorage creates a MinIO client, ensures the bucket exists and returns a
// ready-to-use MinioStorage.
func NewMinioStorage(ctx context.Context, opts MinioOptions, log *zap.Logger) (*MinioStorage, error) {
	if opts.Bucket == "" {
		return nil, ErrNoBucket
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", opts.Bucket, err)
		}
		log.Info("storage: created bucket", zap.String("bucket", opts.Bucket))
	}

	return newMinioStorage(client, opts.Bucket)
}

func newMinioStorage(client *minio.Client, bucket string) (*MinioStorage, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	return &MinioStorage{client: client, bucket: bucket}, nil
}

// Upload streams reader to MinIO under key. Pass size -1 when the length is
// unknown; MinIO then buffers multipart chunks.
func (s *MinioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", s.bucket+"/"+key, err)
	}
	return nil
}

// Delete removes the object at key from the bucket.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", s.bucket+"/"+key, err)
	}
	return nil
}

// PresignGet returns a signed GET URL for key valid for ttl.
func (s *MinioStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", s.bucket+"/"+key, err)
	}
	return u.String(), nil
}
