package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/storage"
)

const pictureURLExpiry = 15 * time.Minute

type pictureService struct {
	carRepo repository.CarRepository
	store   storage.StorageInterface
	cfg     storage.Config
}

func NewPictureService(carRepo repository.CarRepository, store storage.StorageInterface, cfg storage.Config) PictureService {
	return &pictureService{carRepo: carRepo, store: store, cfg: cfg}
}

func (s *pictureService) GetUploadURL(ctx context.Context, carID int32, contentType string) (string, string, int64, error) {
	logger.EnterMethod("pictureService.GetUploadURL", "carID", carID, "contentType", contentType)

	if !s.cfg.Allowed(contentType) {
		return "", "", 0, fmt.Errorf("%w: content type %q not allowed", ErrInvalidInput, contentType)
	}
	if _, err := s.carRepo.GetByID(ctx, carID); err != nil {
		return "", "", 0, translate(err, "car")
	}

	key := storage.CarPictureKey(carID, contentType)
	uploadURL, err := s.store.GeneratePresignedUploadURL(ctx, key, contentType, pictureURLExpiry)
	if err != nil {
		logger.ExitMethodWithError("pictureService.GetUploadURL", err)
		return "", "", 0, fmt.Errorf("failed to generate upload url: %w", err)
	}

	logger.ExitMethod("pictureService.GetUploadURL", "key", key)
	return uploadURL, key, time.Now().Add(pictureURLExpiry).Unix(), nil
}

// ConfirmUpload attaches an uploaded picture to the car once the file is in storage
func (s *pictureService) ConfirmUpload(ctx context.Context, carID int32, key string) (*domain.Car, error) {
	logger.EnterMethod("pictureService.ConfirmUpload", "carID", carID, "key", key)

	if !strings.HasPrefix(key, fmt.Sprintf("cars/%d/", carID)) {
		return nil, fmt.Errorf("%w: key does not belong to car %d", ErrInvalidInput, carID)
	}

	exists, size, err := s.store.FileExists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check upload: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("picture %s: %w", key, ErrNotFound)
	}
	if s.cfg.MaxFileSize > 0 && size > s.cfg.MaxFileSize {
		_ = s.store.DeleteFile(ctx, key)
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.cfg.MaxFileSize)
	}

	downloadURL, err := s.store.GeneratePresignedDownloadURL(ctx, key, pictureURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download url: %w", err)
	}
	if err := s.carRepo.AddPicture(ctx, carID, downloadURL); err != nil {
		return nil, translate(err, "car")
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, translate(err, "car")
	}
	logger.ExitMethod("pictureService.ConfirmUpload", "pictures", len(car.Pictures))
	return car, nil
}
