package assets

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config points the releaser at an S3-compatible object store (AWS S3,
// MinIO, and friends). AccessKey/SecretKey may be left empty to fall back to
// the SDK's default credential chain.
type S3Config struct {
	Bucket       string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// S3Store releases images referenced by object-storage URLs or bare keys.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) Release(ctx context.Context, path string) error {
	key := s.objectKey(path)
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

// objectKey turns a stored image path into the object key inside the bucket.
// Accepted forms: a full URL ("https://host/bucket/items/x.png" with
// path-style addressing, or "https://bucket.host/items/x.png"), a /uploads
// legacy path (not ours, skipped), or a bare key.
func (s *S3Store) objectKey(path string) string {
	if strings.HasPrefix(path, uploadsPrefix) {
		return ""
	}

	u, err := url.Parse(path)
	if err != nil || u.Host == "" {
		return strings.TrimPrefix(path, "/")
	}

	key := strings.TrimPrefix(u.Path, "/")
	if rest, found := strings.CutPrefix(key, s.bucket+"/"); found {
		key = rest
	}
	return key
}
