package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// objectUploader is the part of manager.Uploader used here.
type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// objectPresigner is the part of s3.PresignClient used here.
type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// objectDeleter is the part of s3.Client used here.
type objectDeleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage implements Storage against Amazon S3 through the AWS SDK v2.
// Credentials come from the default chain unless static keys are configured.
type S3Storage struct {
	bucket    string
	uploader  objectUploader
	presigner objectPresigner
	deleter   objectDeleter
}

// S3Options configures NewS3Storage.
type S3Options struct {
	Bucket          string
	Region          string
	EndpointURL     string
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Storage loads AWS configuration, verifies the bucket is reachable and
// returns a ready-to-use S3Storage.
func NewS3Storage(ctx context.Context, opts S3Options, log *zap.Logger) (*S3Storage, error) {
	if opts.Bucket == "" {
		return nil, ErrNoBucket
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(opts.Bucket)}); err != nil {
		return nil, fmt.Errorf("cannot access bucket %q: %w", opts.Bucket, err)
	}
	log.Info("storage: s3 backend ready", zap.String("bucket", opts.Bucket), zap.String("region", opts.Region))

	return newS3Storage(client, opts.Bucket), nil
}

func newS3Storage(client *s3.Client, bucket string) *S3Storage {
	return &S3Storage{
		bucket:    bucket,
		uploader:  manager.NewUploader(client),
		presigner: s3.NewPresignClient(client),
		deleter:   client,
	}
}

// Upload streams reader to S3 under key. The uploader switches to multipart for
// large bodies, so size is advisory.
func (s *S3Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("put object %q: %w", s.bucket+"/"+key, err)
	}
	return nil
}

// Delete removes the object at key.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.deleter.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %q: %w", s.bucket+"/"+key, err)
	}
	return nil
}

// PresignGet returns a SigV4 presigned GET URL for key valid for ttl.
func (s *S3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", s.bucket+"/"+key, err)
	}
	return req.URL, nil
}
