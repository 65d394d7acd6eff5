// Package s3 stores model artifacts in an S3 compatible bucket.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ModelStore = (*Store)(nil)

// keyPrefix is prepended to every object key.
const keyPrefix = "models/"

// Config holds the bucket connection settings.
type Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// Store keeps artifacts as objects named models/<language>.json.
type Store struct {
	client *minio.Client
	bucket string
	region string

	initOnce sync.Once
	initErr  error
}

// NewStore creates a bucket-backed store. The bucket is created on first use.
func NewStore(cfg Config) (*Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	bucket := strings.TrimSpace(cfg.Bucket)
	if endpoint == "" || bucket == "" {
		return nil, fmt.Errorf("%w: model.s3.endpoint and model.s3.bucket", domain.ErrConfigurationMissing)
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	return &Store{client: client, bucket: bucket, region: region}, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if !exists {
			s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
		}
	})
	return s.initErr
}

// Load returns the artifact of a language.
func (s *Store) Load(ctx context.Context, language string) ([]byte, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensuring bucket: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(language), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting model: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if code := minio.ToErrorResponse(err).Code; code == "NoSuchKey" || code == "NoSuchBucket" {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return data, nil
}

// Save uploads the artifact of a language.
func (s *Store) Save(ctx context.Context, language string, data []byte) error {
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensuring bucket: %w", err)
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectKey(language), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("putting model: %w", err)
	}
	return nil
}

func objectKey(language string) string {
	return keyPrefix + language + ".json"
}
