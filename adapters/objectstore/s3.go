package objectstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"dialysisdash/adapters/excel"
	"dialysisdash/domain/tabular"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of the S3 client the table source needs
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config holds explicit construction parameters. Credentials come from the
// default AWS chain (AWS_ACCESS_KEY_ID, shared config, instance role).
type Config struct {
	Region    string
	Endpoint  string // optional; e.g. a MinIO URL
	PathStyle bool
}

// S3TableSource reads the facility table from one S3 object
type S3TableSource struct {
	client ObjectGetter
	bucket string
	key    string
}

// ParseS3URL splits s3://bucket/key into its parts
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 url %q: %w", raw, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("invalid s3 url %q: scheme must be s3", raw)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: need s3://bucket/key", raw)
	}
	return u.Host, key, nil
}

// New creates an S3 table source for an s3:// URL
func New(ctx context.Context, rawURL string, cfg Config) (*S3TableSource, error) {
	bucket, key, err := ParseS3URL(rawURL)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, bucket, key), nil
}

// NewWithClient wires a prepared client, mostly for tests
func NewWithClient(client ObjectGetter, bucket, key string) *S3TableSource {
	return &S3TableSource{client: client, bucket: bucket, key: key}
}

// Describe names the source for logs
func (s *S3TableSource) Describe() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// ReadTable downloads the object and parses it by its key's extension
func (s *S3TableSource) ReadTable(ctx context.Context) (*tabular.Table, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.Describe(), err)
	}
	defer out.Body.Close()

	return excel.ReadFrom(ctx, s.key, out.Body)
}
