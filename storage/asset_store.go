package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"songbox/config"
	"songbox/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Asset categories accepted by Upload. They map to distinct key prefixes
// inside the bucket.
const (
	CategoryAudio = "audio"
	CategoryImage = "image"
)

// Asset identifies one uploaded object and its public URL.
type Asset struct {
	ID  string
	URL string
}

// AssetStore is the contract with the binary-object host: upload a local
// file under a category, delete an object by its identifier.
type AssetStore interface {
	Upload(ctx context.Context, localPath, category string) (*Asset, error)
	Delete(ctx context.Context, assetID string) error
}

// MinioAssetStore implements AssetStore on top of the shared MinIO client.
type MinioAssetStore struct {
	bucket    string
	publicURL string
	timeout   time.Duration
}

// NewMinioAssetStore creates a MinIO-backed asset store. InitMinio must
// have been called first.
func NewMinioAssetStore(cfg *config.Config) *MinioAssetStore {
	return &MinioAssetStore{
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(cfg.MinioPublicURL, "/"),
		timeout:   cfg.UploadTimeout,
	}
}

func categoryPrefix(category string) (string, error) {
	switch category {
	case CategoryAudio:
		return "audio/", nil
	case CategoryImage:
		return "covers/", nil
	default:
		return "", fmt.Errorf("unknown asset category: %s", category)
	}
}

func contentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".mp3":
		return "audio/mpeg"
	case ".mp4":
		return "audio/mp4"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Upload stores the file at localPath under the category's prefix and
// returns the object key and public URL. The key doubles as the asset
// identifier used for deletion.
func (s *MinioAssetStore) Upload(ctx context.Context, localPath, category string) (*Asset, error) {
	client := GetMinioClient()
	if client == nil {
		return nil, fmt.Errorf("MinIO client not initialized")
	}

	prefix, err := categoryPrefix(category)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(localPath)
	objectKey := prefix + uuid.NewString() + ext

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	_, err = client.FPutObject(ctx, s.bucket, objectKey, localPath, minio.PutObjectOptions{
		ContentType: contentTypeForExt(ext),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s to bucket %s: %w", localPath, s.bucket, err)
	}

	logger.Info("Uploaded asset",
		logger.String("objectKey", objectKey),
		logger.String("category", category),
		logger.Duration("elapsed", time.Since(start)))

	return &Asset{
		ID:  objectKey,
		URL: s.publicURL + "/" + objectKey,
	}, nil
}

// Delete removes the object identified by assetID from the bucket.
func (s *MinioAssetStore) Delete(ctx context.Context, assetID string) error {
	client := GetMinioClient()
	if client == nil {
		return fmt.Errorf("MinIO client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := client.RemoveObject(ctx, s.bucket, assetID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", assetID, err)
	}

	logger.Info("Deleted asset", logger.String("assetId", assetID))
	return nil
}
