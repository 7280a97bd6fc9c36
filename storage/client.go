package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds the S3-compatible object store settings, read from env.
type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string
	PublicBaseURL   string
}

// LoadConfig reads the storage configuration from the environment.
func LoadConfig() Config {
	return Config{
		Region:          os.Getenv("S3_REGION"),
		Bucket:          os.Getenv("S3_BUCKET"),
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		EndpointURL:     os.Getenv("S3_ENDPOINT_URL"),
		PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),
	}
}

// Client wraps the S3 client with issue-photo upload functionality.
type Client struct {
	s3Client *s3.Client
	config   Config
}

// NewClient creates an object store client and verifies the bucket is reachable.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// MinIO / Backblaze style endpoints need path-style URLs
			o.UsePathStyle = true
		}
	})

	client := &Client{s3Client: s3Client, config: cfg}

	if _, err := s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, fmt.Errorf("bucket %s not accessible: %w", cfg.Bucket, err)
	}

	return client, nil
}

// ObjectKey builds the canonical key for an uploaded photo:
// <prefix>/<epoch-ms>_<filename>. Prefix is "issues" for submission photos
// and "updates" for timeline photos.
func ObjectKey(prefix, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d_%s", prefix, now.UnixMilli(), path.Base(filename))
}

// Upload stores a photo under key and returns its public retrieval URL.
// Photos are write-once: keys embed a millisecond timestamp and are never
// overwritten or deleted.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return c.PublicURL(key), nil
}

// PublicURL returns the retrieval URL for an object key.
func (c *Client) PublicURL(key string) string {
	if c.config.PublicBaseURL != "" {
		return strings.TrimRight(c.config.PublicBaseURL, "/") + "/" + key
	}
	if c.config.EndpointURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.config.EndpointURL, "/"), c.config.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.config.Bucket, c.config.Region, key)
}
