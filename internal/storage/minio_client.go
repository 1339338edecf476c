package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"blogsphere/internal/config"
	"blogsphere/internal/models"
)

type MinIOClient struct {
	client *minio.Client
	bucket string
	region string
	public string
}

func NewMinIOClient(cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOClient{
		client: client,
		bucket: cfg.BucketName,
		region: cfg.Region,
		public: publicBase(cfg),
	}, nil
}

func publicBase(cfg config.MinIO) string {
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.PublicHost, cfg.BucketName)
}

// EnsureBucket creates the image bucket when it does not exist yet.
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", m.bucket, err)
	}
	return nil
}

func (m *MinIOClient) Save(ctx context.Context, folder, fileName string, file io.Reader, size int64) (models.ImageRef, error) {
	_, ext := cleanName(fileName)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now()
	objectName := objectKey(folder, ext, now)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return models.ImageRef{}, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return models.ImageRef{
		Kind: models.ImageRemote,
		Key:  objectName,
		URL:  m.public + "/" + objectName,
	}, nil
}

func (m *MinIOClient) Delete(ctx context.Context, ref models.ImageRef) error {
	if ref.IsZero() {
		return nil
	}
	if ref.Kind != models.ImageRemote {
		return fmt.Errorf("MinIO store cannot delete %s image %s: %w", ref.Kind, ref.Key, ErrForeignImage)
	}

	err := m.client.RemoveObject(ctx, m.bucket, ref.Key, minio.RemoveObjectOptions{GovernanceBypass: true})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete from MinIO: %w", err)
	}
	return nil
}

func objectKey(folder, ext string, now time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%s%s", folder, now.Year(), now.Month(), uuid.New().String(), ext)
}
