package image

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hierfortune/server/internal/shared/config"
)

// Storage issues presigned URLs against the face-photo bucket. The server
// never proxies image bytes; clients talk to object storage directly.
type Storage interface {
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedURL, error)
	PresignDownload(ctx context.Context, key string) (*PresignedURL, error)
	PresignDelete(ctx context.Context, key string) (*PresignedURL, error)
}

// PresignedURL is one time-limited URL for a single object operation.
type PresignedURL struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// S3Storage backs Storage with any S3-compatible endpoint (R2 included).
type S3Storage struct {
	presigner *s3.PresignClient
	bucket    string
	expiry    time.Duration
}

// NewS3Storage creates the storage client from configuration.
func NewS3Storage(cfg *config.StorageConfig) (*S3Storage, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, errors.New("incomplete storage configuration")
	}

	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKeyID,
		cfg.SecretAccessKey,
		"",
	)

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Storage{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		expiry:    cfg.PresignExpiry,
	}, nil
}

// PresignUpload returns a PUT URL for one photo.
func (s *S3Storage) PresignUpload(ctx context.Context, key, contentType string) (*PresignedURL, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	req, err := s.presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = s.expiry
	})
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}
	return &PresignedURL{URL: req.URL, Method: req.Method, ExpiresAt: time.Now().Add(s.expiry)}, nil
}

// PresignDownload returns a GET URL for one photo.
func (s *S3Storage) PresignDownload(ctx context.Context, key string) (*PresignedURL, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	req, err := s.presigner.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = s.expiry
	})
	if err != nil {
		return nil, fmt.Errorf("presign get: %w", err)
	}
	return &PresignedURL{URL: req.URL, Method: req.Method, ExpiresAt: time.Now().Add(s.expiry)}, nil
}

// PresignDelete returns a DELETE URL for one photo.
func (s *S3Storage) PresignDelete(ctx context.Context, key string) (*PresignedURL, error) {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	req, err := s.presigner.PresignDeleteObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = s.expiry
	})
	if err != nil {
		return nil, fmt.Errorf("presign delete: %w", err)
	}
	return &PresignedURL{URL: req.URL, Method: req.Method, ExpiresAt: time.Now().Add(s.expiry)}, nil
}
