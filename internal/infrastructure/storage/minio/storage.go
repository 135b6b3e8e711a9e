// Package minio keeps uploaded documents in an S3-compatible bucket.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/legalsift/docsift/internal/core/domain"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// URLExpiry > 0 hands out presigned GET URLs; zero hands out plain object URLs.
	URLExpiry time.Duration
}

type Storage struct {
	client *minio.Client
	cfg    Config
}

func New(cfg Config) (*Storage, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &Storage{client: client, cfg: cfg}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

func (s *Storage) Put(ctx context.Context, key, contentType string, data []byte) (domain.StoredObject, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return domain.StoredObject{}, fmt.Errorf("upload object: %w", err)
	}

	objectURL, err := s.URL(ctx, key)
	if err != nil {
		return domain.StoredObject{}, err
	}
	return domain.StoredObject{ID: key, URL: objectURL}, nil
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// URL returns a presigned URL when an expiry is configured, otherwise the public one.
func (s *Storage) URL(ctx context.Context, key string) (string, error) {
	if s.cfg.URLExpiry <= 0 {
		return s.PublicURL(key), nil
	}
	u, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, key, s.cfg.URLExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object url: %w", err)
	}
	return u.String(), nil
}

// PublicURL is only reachable when the bucket policy allows anonymous reads.
func (s *Storage) PublicURL(key string) string {
	protocol := "http"
	if s.cfg.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.cfg.Endpoint, s.cfg.Bucket, key)
}
