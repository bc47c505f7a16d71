package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Elementlead/PbimageS/internal/config"
	"github.com/Elementlead/PbimageS/internal/imaging"
	"github.com/Elementlead/PbimageS/internal/middleware"
	"github.com/Elementlead/PbimageS/internal/models"
	"github.com/Elementlead/PbimageS/internal/pkg/apierrors"
	"github.com/Elementlead/PbimageS/internal/pkg/ulid"
	"github.com/Elementlead/PbimageS/internal/repository"
)

// maxListResults caps how many images a single list call returns.
const maxListResults = 100

// ImageService defines image upload, listing, and deletion operations.
// Every operation is scoped to the calling user.
type ImageService interface {
	Upload(ctx context.Context, req UploadRequest) (*models.Image, error)
	// List returns the user's images newest first. A nil private filter
	// returns both visibilities.
	List(ctx context.Context, userID uuid.UUID, private *bool) ([]*models.Image, error)
	Delete(ctx context.Context, userID uuid.UUID, imageID string) error
}

// UploadRequest is the request for storing a new image.
type UploadRequest struct {
	UserID      uuid.UUID
	Filename    string
	Caption     string
	IsPrivate   bool
	ContentType string
	Data        []byte
}

type imageService struct {
	images repository.ImageRepository
	upload config.UploadConfig
	logger *slog.Logger
}

// NewImageService creates a new image service.
func NewImageService(images repository.ImageRepository, upload config.UploadConfig, logger *slog.Logger) ImageService {
	return &imageService{images: images, upload: upload, logger: logger}
}

func (s *imageService) Upload(ctx context.Context, req UploadRequest) (*models.Image, error) {
	if len(req.Data) == 0 {
		return nil, apierrors.NewValidationError("file", "file is empty")
	}
	if int64(len(req.Data)) > s.upload.MaxBytes {
		return nil, apierrors.NewValidationError("file",
			fmt.Sprintf("file exceeds the %d MiB limit", s.upload.MaxBytes/(1024*1024)))
	}

	processed, err := imaging.Process(req.Data, req.ContentType, imaging.Options{
		MaxWidth:    s.upload.MaxWidth,
		MaxHeight:   s.upload.MaxHeight,
		JPEGQuality: s.upload.JPEGQuality,
	})
	if err != nil {
		return nil, err
	}

	img := &models.Image{
		ID:          ulid.New(),
		UserID:      req.UserID,
		Filename:    req.Filename,
		Caption:     req.Caption,
		IsPrivate:   req.IsPrivate,
		ContentType: processed.ContentType,
		Data:        processed.Data,
		FileSize:    int64(len(processed.Data)),
	}
	if err := s.images.Create(ctx, img); err != nil {
		return nil, err
	}

	middleware.UploadsTotal.Inc()
	middleware.UploadBytes.Observe(float64(img.FileSize))

	s.logger.Info("image uploaded",
		"image_id", img.ID,
		"user_id", img.UserID,
		"size", img.FileSize,
		"private", img.IsPrivate,
	)
	return img, nil
}

func (s *imageService) List(ctx context.Context, userID uuid.UUID, private *bool) ([]*models.Image, error) {
	return s.images.ListByOwner(ctx, userID, private, maxListResults)
}

func (s *imageService) Delete(ctx context.Context, userID uuid.UUID, imageID string) error {
	if err := s.images.Delete(ctx, userID, imageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierrors.NewNotFoundError("Image")
		}
		return err
	}
	s.logger.Info("image deleted", "image_id", imageID, "user_id", userID)
	return nil
}
