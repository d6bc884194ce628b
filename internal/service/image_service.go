package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/vidhi-1412/Realestate/internal/domain"
)

// UploadImage stores the bytes privately and returns the storage path. The
// caller never receives a URL here; URLs are minted when records are read.
func (s *contentService) UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrBadRequest)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	path, err := s.objects.Put(ctx, filename, data, contentType)
	s.metrics.UploadDone(len(data), err)
	if err != nil {
		if !errors.Is(err, domain.ErrUpload) {
			err = fmt.Errorf("%w: %w", domain.ErrUpload, err)
		}
		return "", err
	}

	s.log.Info("Image uploaded successfully",
		zap.String("path", path),
		zap.String("filename", filename),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)))

	return path, nil
}
