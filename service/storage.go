package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	gstorage "cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Storage writes small files (e.g. manifests) under a root uri
type Storage interface {
	// Write stores data at root/name and returns the full uri
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// S3Options configures the access to a s3 storage. Empty fields fall back to the default aws configuration
type S3Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewStorage returns the Storage of the uri: a local path, gs://bucket/prefix or s3://bucket/prefix
func NewStorage(ctx context.Context, uri string, s3opts S3Options) (Storage, error) {
	switch {
	case strings.HasPrefix(uri, "gs://"):
		bucket, prefix := splitBucket(strings.TrimPrefix(uri, "gs://"))
		client, err := gstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("NewStorage.gs: %w", err)
		}
		return &GSStorage{bucket: client.Bucket(bucket), name: bucket, prefix: prefix}, nil

	case strings.HasPrefix(uri, "s3://"):
		bucket, prefix := splitBucket(strings.TrimPrefix(uri, "s3://"))
		var opts []func(*awsconfig.LoadOptions) error
		if s3opts.Region != "" {
			opts = append(opts, awsconfig.WithRegion(s3opts.Region))
		}
		if s3opts.AccessKeyID != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s3opts.AccessKeyID, s3opts.SecretAccessKey, "")))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("NewStorage.s3.LoadDefaultConfig: %w", err)
		}
		return &S3Storage{uploader: manager.NewUploader(s3.NewFromConfig(cfg)), bucket: bucket, prefix: prefix}, nil

	case strings.Contains(uri, "://") && !strings.HasPrefix(uri, "file://"):
		return nil, fmt.Errorf("NewStorage: unsupported uri %s (supported: local path, gs://, s3://)", uri)
	}
	return &LocalStorage{root: strings.TrimPrefix(uri, "file://")}, nil
}

func splitBucket(uri string) (string, string) {
	parts := strings.SplitN(uri, "/", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Trim(parts[1], "/")
}

// LocalStorage implements Storage on the local filesystem
type LocalStorage struct {
	root string
}

// Write implements Storage
func (s *LocalStorage) Write(ctx context.Context, name string, data []byte) (string, error) {
	dst := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("LocalStorage.MkdirAll: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", fmt.Errorf("LocalStorage.WriteFile: %w", err)
	}
	return dst, nil
}

// GSStorage implements Storage on Google Cloud Storage
type GSStorage struct {
	bucket *gstorage.BucketHandle
	name   string
	prefix string
}

// Write implements Storage
func (s *GSStorage) Write(ctx context.Context, name string, data []byte) (string, error) {
	object := path.Join(s.prefix, name)
	w := s.bucket.Object(object).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("GSStorage.Write gs://%s/%s: %w", s.name, object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("GSStorage.Close gs://%s/%s: %w", s.name, object, err)
	}
	return fmt.Sprintf("gs://%s/%s", s.name, object), nil
}

// S3Storage implements Storage on AWS S3
type S3Storage struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// Write implements Storage
func (s *S3Storage) Write(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(s.prefix, name)
	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", fmt.Errorf("S3Storage.Upload s3://%s/%s: %w", s.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
