// Package storage uploads images to an S3-compatible bucket and hands back
// their public URL.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/google/uuid"
)

// ObjectStore persists binary blobs and returns a URL they can be fetched from.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

type S3Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	// PublicURL is the externally visible prefix of the bucket. When empty
	// URLs are built from Endpoint and Bucket.
	PublicURL string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

type S3Store struct {
	client *s3.Client
	cfg    S3Config
	now    func() time.Time
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Store{client: client, cfg: cfg, now: time.Now}, nil
}

// Key returns a fresh object key partitioned by upload date.
func (s *S3Store) Key() string {
	d := s.now().UTC()
	return fmt.Sprintf("images/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uuid.NewString())
}

// Upload stores data under a new key. Any failure of the backend is
// reported as common.ErrStorageUnavailable.
func (s *S3Store) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image", common.ErrValidation)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := s.Key()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return s.URL(key), nil
}

// URL returns the public address of key.
func (s *S3Store) URL(key string) string {
	base := s.cfg.PublicURL
	if base == "" {
		base = strings.TrimSuffix(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket
	}
	return strings.TrimSuffix(base, "/") + "/" + key
}
