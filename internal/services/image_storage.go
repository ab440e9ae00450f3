package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MaxImageBytes caps a single stored card image
const MaxImageBytes = 5 << 20

var ErrNotImage = errors.New("data is not a supported image")

// ImageStorageService stores card images attached to collection rows
type ImageStorageService struct {
	storageDir string
}

// NewImageStorageService creates an image store rooted at storageDir
func NewImageStorageService(storageDir string) *ImageStorageService {
	if storageDir == "" {
		storageDir = "./data/card_images"
	}

	// Ensure the storage directory exists
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		// Log but don't fail, writes will surface the error
		slog.Warn("could not create card images directory", slog.String("dir", storageDir), slog.Any("error", err))
	}

	return &ImageStorageService{
		storageDir: storageDir,
	}
}

// SaveImage writes image data under a fresh uuid name and returns the filename
func (s *ImageStorageService) SaveImage(imageData []byte) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("empty image data")
	}
	if len(imageData) > MaxImageBytes {
		return "", fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	}

	ext, ok := imageExtension(http.DetectContentType(imageData))
	if !ok {
		return "", ErrNotImage
	}

	filename := uuid.New().String() + ext
	filePath := filepath.Join(s.storageDir, filename)

	if err := os.WriteFile(filePath, imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return filename, nil
}

// Delete removes a stored image. Missing files are not an error.
func (s *ImageStorageService) Delete(filename string) error {
	if filename == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.storageDir, filepath.Base(filename)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// GetStorageDir returns the storage directory path
func (s *ImageStorageService) GetStorageDir() string {
	return s.storageDir
}

func imageExtension(contentType string) (string, bool) {
	switch contentType {
	case "image/jpeg":
		return ".jpg", true
	case "image/png":
		return ".png", true
	case "image/gif":
		return ".gif", true
	case "image/webp":
		return ".webp", true
	default:
		return "", false
	}
}
