package image

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidFileName is returned for names whose extension is not a
// supported image format.
var ErrInvalidFileName = errors.New("invalid image file name")

// UploadRequest names the file the client wants to upload. Only the
// extension matters; the stored key is a fresh UUID.
type UploadRequest struct {
	FileName string `json:"fileName" binding:"required"`
}

// MultiUploadRequest asks for several upload URLs at once.
type MultiUploadRequest struct {
	FileNames []string `json:"fileNames" binding:"required,min=1"`
}

// Service hands out presigned URLs for face photos.
type Service struct {
	storage Storage
	logger  *zap.Logger
}

// NewService creates a new image service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// UploadURL returns one presigned PUT URL. The object key is generated
// server-side so clients cannot overwrite each other's photos.
func (s *Service) UploadURL(ctx context.Context, req *UploadRequest) (*PresignedURL, error) {
	ext, err := imageExtension(req.FileName)
	if err != nil {
		return nil, err
	}

	key := uuid.NewString() + "." + ext
	url, err := s.storage.PresignUpload(ctx, key, contentTypeFor(ext))
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	s.logger.Debug("issued upload url", zap.String("key", key))
	return url, nil
}

// UploadURLs returns one presigned PUT URL per requested file.
func (s *Service) UploadURLs(ctx context.Context, req *MultiUploadRequest) ([]*PresignedURL, error) {
	urls := make([]*PresignedURL, 0, len(req.FileNames))
	for _, name := range req.FileNames {
		url, err := s.UploadURL(ctx, &UploadRequest{FileName: name})
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// DownloadURL returns a presigned GET URL for a stored photo.
func (s *Service) DownloadURL(ctx context.Context, key string) (*PresignedURL, error) {
	if key == "" {
		return nil, ErrInvalidFileName
	}
	url, err := s.storage.PresignDownload(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

// DeleteURL returns a presigned DELETE URL for a stored photo.
func (s *Service) DeleteURL(ctx context.Context, key string) (*PresignedURL, error) {
	if key == "" {
		return nil, ErrInvalidFileName
	}
	url, err := s.storage.PresignDelete(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign delete: %w", err)
	}
	return url, nil
}

// imageExtension extracts and validates the extension.
func imageExtension(fileName string) (string, error) {
	i := strings.LastIndexByte(fileName, '.')
	if i <= 0 || i == len(fileName)-1 {
		return "", ErrInvalidFileName
	}
	ext := strings.ToLower(fileName[i+1:])
	switch ext {
	case "jpg", "jpeg", "png":
		return ext, nil
	default:
		return "", ErrInvalidFileName
	}
}

func contentTypeFor(ext string) string {
	if ext == "png" {
		return "image/png"
	}
	return "image/jpeg"
}
