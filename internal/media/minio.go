package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// MinIO uploads photos to an S3-compatible bucket.
type MinIO struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinIO(ctx context.Context, cfg MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + cfg.Endpoint
	}
	return &MinIO{client: client, bucket: cfg.Bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (m *MinIO) Save(ctx context.Context, reportID, dataURL string) (string, error) {
	image, err := ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}
	key := ObjectKey(reportID, image)
	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(image.Data), int64(len(image.Data)),
		minio.PutObjectOptions{ContentType: image.ContentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return m.baseURL + "/" + m.bucket + "/" + key, nil
}

// ObjectKey is where a report's photo lives inside the bucket.
func ObjectKey(reportID string, image Image) string {
	return "reports/" + reportID + "." + image.Extension()
}
