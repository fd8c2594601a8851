package objectstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pdfvault/internal/config"
)

// S3 error codes handled explicitly.
const (
	codeNoSuchKey               = "NoSuchKey"
	codeNoSuchBucket            = "NoSuchBucket"
	codeBucketAlreadyOwnedByYou = "BucketAlreadyOwnedByYou"
	codeBucketAlreadyExists     = "BucketAlreadyExists"
)

// MinioClient talks to MinIO or any S3-compatible endpoint.
type MinioClient struct {
	client *minio.Client
	region string
	logger *slog.Logger
}

func NewMinioClient(cfg config.MinioConfig, logger *slog.Logger) (*MinioClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", cfg.Endpoint, err)
	}
	return &MinioClient{
		client: client,
		region: cfg.Region,
		logger: logger.With(slog.String("component", "objectstore")),
	}, nil
}

func (c *MinioClient) EnsureBucket(ctx context.Context, bucket string) error {
	found, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if found {
		return nil
	}

	err = c.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.region})
	if err != nil {
		// another instance won the race between BucketExists and MakeBucket
		switch minio.ToErrorResponse(err).Code {
		case codeBucketAlreadyOwnedByYou, codeBucketAlreadyExists:
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	c.logger.Info("bucket created", slog.String("bucket", bucket))
	return nil
}

func (c *MinioClient) Put(ctx context.Context, bucket, key, contentType string, r io.Reader, size int64) error {
	_, err := c.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, translate(err))
	}
	return nil
}

func (c *MinioClient) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := c.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, key, translate(err))
	}
	// GetObject is lazy; Stat forces the request so a missing key shows up here.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("get %s/%s: %w", bucket, key, translate(err))
	}
	return obj, nil
}

func (c *MinioClient) List(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for info := range c.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list %s: %w", bucket, translate(info.Err))
		}
		out = append(out, ObjectInfo{Key: info.Key, Size: info.Size, LastModified: info.LastModified})
	}
	return out, nil
}

func translate(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case codeNoSuchKey:
		return fmt.Errorf("%w: %v", ErrObjectNotFound, err)
	case codeNoSuchBucket:
		return fmt.Errorf("%w: %v", ErrBucketNotFound, err)
	}
	return err
}
