package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio stores attachments as objects in a MinIO (or any S3-compatible)
// bucket. Object writes are atomic on the server side, so no staging step
// is needed here.
type Minio struct {
	client *minio.Client
	bucket string
}

func NewMinio(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Minio, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return &Minio{client: client, bucket: bucket}, nil
}

func (m *Minio) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) error {
	if err := validName(name); err != nil {
		return err
	}
	_, err := m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put attachment: %w", err)
	}
	return nil
}

func (m *Minio) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := validName(name); err != nil {
		return nil, ErrNotExist
	}
	// GetObject is lazy: stat first so a missing object is reported here
	// instead of on the first read.
	if _, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("stat attachment: %w", err)
	}
	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	return obj, nil
}

func (m *Minio) Exists(ctx context.Context, name string) (bool, error) {
	if err := validName(name); err != nil {
		return false, nil
	}
	_, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat attachment: %w", err)
	}
	return true, nil
}

func (m *Minio) Remove(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	return m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{})
}
