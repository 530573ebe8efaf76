// Package storage archives uploaded resumes in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for S3-compatible storage
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	// Endpoint overrides the AWS endpoint (MinIO, Wasabi, R2). Path-style
	// addressing is used whenever it is set.
	Endpoint string
}

// Enabled reports whether enough configuration exists to archive.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// S3ConfigFromEnv reads credentials from the environment and takes the
// bucket, region and endpoint from the caller.
func S3ConfigFromEnv(bucket, region, endpoint string) S3Config {
	return S3Config{
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		Region:          region,
		Bucket:          bucket,
		Endpoint:        endpoint,
	}
}

// objectPutter is the slice of the S3 API the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive stores resume uploads under a fixed bucket.
type S3Archive struct {
	client objectPutter
	bucket string
}

// NewS3Archive creates an archive client with the given config
func NewS3Archive(ctx context.Context, cfg S3Config) (*S3Archive, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archive{client: client, bucket: cfg.Bucket}, nil
}

// Store uploads body under key and returns the object location.
func (a *S3Archive) Store(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", key, a.bucket, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
