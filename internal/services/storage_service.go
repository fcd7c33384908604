package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/crisdbarco/DeclaraFacil/internal/config"
	"github.com/crisdbarco/DeclaraFacil/internal/logging"
	"github.com/crisdbarco/DeclaraFacil/internal/observability"
	"github.com/crisdbarco/DeclaraFacil/internal/utils"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// artifactNamespace is the fixed object-key prefix for published declarations
const artifactNamespace = "declarations"

// ArtifactPublisher publishes a named byte buffer and returns a
// time-limited signed retrieval URL
type ArtifactPublisher interface {
	Publish(ctx context.Context, fileName string, data []byte, contentType string) (string, error)
}

// StorageService publishes generated documents to S3-compatible object
// storage and signs retrieval URLs
type StorageService struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	logger *logging.SafeLogger
}

// NewStorageService creates a new storage service instance
func NewStorageService(client *minio.Client, bucket string, expiry time.Duration, logger *logging.SafeLogger) *StorageService {
	return &StorageService{
		client: client,
		bucket: bucket,
		expiry: expiry,
		logger: logger,
	}
}

// Global storage service instance
var StorageServiceInstance *StorageService

// InitStorageService initializes the global storage service instance and
// ensures the artifact bucket exists
func InitStorageService() error {
	client, err := minio.New(config.AppConfig.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AppConfig.StorageAccessKey, config.AppConfig.StorageSecretKey, ""),
		Secure: config.AppConfig.StorageUseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bucket := config.AppConfig.StorageBucket
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check artifact bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create artifact bucket: %w", err)
		}
	}

	StorageServiceInstance = NewStorageService(client, bucket, config.AppConfig.SignedURLExpiry, logging.Logger)
	logging.Logger.Info("storage service initialized successfully",
		zap.String("endpoint", config.AppConfig.StorageEndpoint),
		zap.String("bucket", bucket))
	return nil
}

// Publish uploads the artifact under the declarations namespace and
// returns a presigned GET URL
func (s *StorageService) Publish(ctx context.Context, fileName string, data []byte, contentType string) (string, error) {
	start := time.Now()
	ctx, span := utils.TraceExternalService(ctx, "object_storage", "publish")
	defer func() {
		utils.AddTimingToSpan(span, start)
		span.End()
	}()

	objectName := artifactNamespace + "/" + fileName

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		observability.ArtifactUploads.WithLabelValues("error").Inc()
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"object": objectName})
		return "", fmt.Errorf("failed to upload artifact: %w", err)
	}
	observability.ArtifactUploads.WithLabelValues("success").Inc()
	utils.AddSpanAttribute(span, "artifact.size_bytes", len(data))

	signedURL, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, s.expiry, url.Values{})
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return "", fmt.Errorf("failed to sign artifact URL: %w", err)
	}

	s.logger.Debug("published artifact",
		zap.String("object", objectName),
		zap.Int("size_bytes", len(data)))

	return signedURL.String(), nil
}
