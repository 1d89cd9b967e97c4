package storage

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadFolder collects all client reference images in one place.
const uploadFolder = "clubtattoo_uploads"

// StorageService stores client-uploaded reference images.
type StorageService interface {
	UploadImage(ctx context.Context, localFilePath string) (string, error)
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates a Cloudinary-backed storage service.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (StorageService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage: initialize cloudinary: %w", err)
	}
	return &cloudinaryStorage{cld: cld}, nil
}

// UploadImage uploads the file and returns its delivery URL.
func (s *cloudinaryStorage) UploadImage(ctx context.Context, localFilePath string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, localFilePath, uploader.UploadParams{
		Folder: uploadFolder,
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload failed: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("storage: no URL returned for upload")
	}
	return result.SecureURL, nil
}
