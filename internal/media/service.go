package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitpath/athlete-portal/athlete-portal-backend/pkg/storage"
)

var (
	ErrNotFound     = errors.New("media asset not found")
	ErrUnauthorized = errors.New("caller does not own this asset")
	ErrUnsupported  = errors.New("unsupported media type")
)

const presignTTL = 15 * time.Minute

var allowedContentTypes = map[MediaKind][]string{
	KindProfileImage:  {"image/jpeg", "image/png", "image/webp"},
	KindHighlightClip: {"video/mp4", "video/quicktime"},
	KindTranscript:    {"application/pdf"},
}

// Service manages the athlete media library backed by S3.
type Service struct {
	repo   Repository
	store  storage.S3Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new media service.
func NewService(repo Repository, store storage.S3Client, bucket string, logger *zap.Logger) *Service {
	return &Service{repo: repo, store: store, bucket: bucket, logger: logger}
}

// Upload stores the object and records the asset. The storage key is
// namespaced by athlete so keys never collide across accounts.
func (s *Service) Upload(ctx context.Context, athleteID uuid.UUID, kind MediaKind, fileName, contentType string, size int64, body io.Reader) (*Asset, error) {
	if !kindAccepts(kind, contentType) {
		return nil, fmt.Errorf("%w: %s for %s", ErrUnsupported, contentType, kind)
	}

	asset := &Asset{
		ID:          uuid.New(),
		AthleteID:   athleteID,
		Kind:        kind,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		CreatedAt:   time.Now(),
	}
	asset.StorageKey = fmt.Sprintf("athletes/%s/%s/%s%s",
		athleteID, kind, asset.ID, strings.ToLower(path.Ext(fileName)))

	if err := s.store.Upload(ctx, s.bucket, asset.StorageKey, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to upload media object: %w", err)
	}

	if err := s.repo.CreateAsset(ctx, asset); err != nil {
		// Orphaned objects are cleaned up opportunistically; the record is
		// the source of truth.
		if delErr := s.store.Delete(ctx, s.bucket, asset.StorageKey); delErr != nil {
			s.logger.Warn("failed to remove orphaned media object",
				zap.String("key", asset.StorageKey), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record media asset: %w", err)
	}

	s.logger.Info("media asset uploaded",
		zap.String("asset_id", asset.ID.String()),
		zap.String("athlete_id", athleteID.String()),
		zap.String("kind", string(kind)))

	return asset, nil
}

// List returns the athlete's assets with presigned download URLs.
func (s *Service) List(ctx context.Context, athleteID uuid.UUID) ([]AssetView, error) {
	assets, err := s.repo.ListAssets(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media assets: %w", err)
	}

	views := make([]AssetView, 0, len(assets))
	for _, asset := range assets {
		url, err := s.store.GetPresignedURL(ctx, s.bucket, asset.StorageKey, presignTTL)
		if err != nil {
			s.logger.Warn("failed to presign media URL",
				zap.String("asset_id", asset.ID.String()), zap.Error(err))
			continue
		}
		views = append(views, AssetView{Asset: asset, URL: url})
	}
	return views, nil
}

// Delete removes the asset record and its object. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, callerID, assetID uuid.UUID) error {
	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return fmt.Errorf("failed to load media asset: %w", err)
	}
	if asset == nil {
		return ErrNotFound
	}
	if asset.AthleteID != callerID {
		return ErrUnauthorized
	}

	if err := s.repo.DeleteAsset(ctx, assetID); err != nil {
		return fmt.Errorf("failed to delete media asset: %w", err)
	}
	if err := s.store.Delete(ctx, s.bucket, asset.StorageKey); err != nil {
		s.logger.Warn("failed to delete media object",
			zap.String("key", asset.StorageKey), zap.Error(err))
	}
	return nil
}

func kindAccepts(kind MediaKind, contentType string) bool {
	for _, ct := range allowedContentTypes[kind] {
		if ct == contentType {
			return true
		}
	}
	return false
}
