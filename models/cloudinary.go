package models

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryService backs the marketplace's image object storage. A listing
// may reference an image either by direct URL or by the storage id (the
// Cloudinary public ID) returned from an upload.
type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService() (*CloudinaryService, error) {
	if cldURL := os.Getenv("CLOUDINARY_URL"); cldURL != "" {
		cld, err := cloudinary.NewFromURL(cldURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
		}
		return &CloudinaryService{cld: cld}, nil
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryService{cld: cld}, nil
}

func (s *CloudinaryService) ValidateImageFile(file *multipart.FileHeader) error {
	if file.Size > 5*1024*1024 {
		return errors.New("file too large (max 5MB)")
	}

	allowedExts := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExts[ext] {
		return errors.New("invalid file type. Only jpg, jpeg, png, gif, webp allowed")
	}

	return nil
}

// UploadImage stores the image and returns (url, storageID).
func (s *CloudinaryService) UploadImage(ctx context.Context, file multipart.File, filename string) (string, string, error) {
	publicID := fmt.Sprintf("%d_%s", time.Now().UnixNano(), strings.ReplaceAll(filename, " ", "_"))
	publicID = strings.TrimSuffix(publicID, filepath.Ext(publicID))

	uploadResult, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         "ecofinds/listings",
		ResourceType:   "image",
		Transformation: "q_auto,f_auto",
	})

	if err != nil {
		return "", "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}

	return uploadResult.SecureURL, uploadResult.PublicID, nil
}

// ResolveURL turns a storage id into a delivery URL for display.
func (s *CloudinaryService) ResolveURL(ctx context.Context, storageID string) (string, error) {
	if storageID == "" {
		return "", errors.New("empty storage id")
	}

	img, err := s.cld.Image(storageID)
	if err != nil {
		return "", fmt.Errorf("failed to build image asset: %w", err)
	}

	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to resolve image url: %w", err)
	}

	return url, nil
}

func (s *CloudinaryService) DeleteImage(ctx context.Context, storageID string) error {
	if storageID == "" {
		return nil
	}

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     storageID,
		ResourceType: "image",
	})

	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}

	return nil
}
