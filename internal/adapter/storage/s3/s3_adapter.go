package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Storage implements domain.ImageStorage on a MinIO/S3-compatible bucket.
type Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewStorage creates the MinIO client and ensures the bucket exists.
func NewStorage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*Storage, error) {
	log.Info("Initializing S3 storage",
		zap.String("endpoint", endpoint),
		zap.String("bucket", bucketName),
		zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), bucketName)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: %w", bucketName, err)
		}
	}

	return &Storage{
		client: client,
		bucket: bucketName,
		logger: log.Named("S3Storage"),
	}, nil
}

// Upload stores the image under a generated key and returns its public
// URL together with the key needed for later deletion.
func (s *Storage) Upload(ctx context.Context, filename, contentType string, data []byte) (*domain.StoredImage, error) {
	ext := filepath.Ext(filename)
	objectKey := fmt.Sprintf("images/%s%s", uuid.New().String(), ext)

	s.logger.Debug("Uploading image",
		zap.String("object_key", objectKey),
		zap.String("original_filename", filename),
		zap.Int("size_bytes", len(data)))

	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		s.logger.Error("PutObject failed", zap.Error(err), zap.String("object_key", objectKey))
		return nil, fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	return &domain.StoredImage{URL: fileURL, Key: objectKey}, nil
}

// Delete removes the object with the given key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("RemoveObject failed", zap.Error(err), zap.String("object_key", key))
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}
