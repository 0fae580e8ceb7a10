package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jktools/mediatools/pkg/utils"
)

// SaveFile uploads raw bytes under a generated storage key.
func (s *Service) SaveFile(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	return s.Upload(ctx, bytes.NewBuffer(data), filename, contentType)
}

// Upload pushes a processed file to the object store and returns its public URL.
func (s *Service) Upload(ctx context.Context, buffer *bytes.Buffer, filename, contentType string) (string, error) {
	key := utils.GenerateStorageKey(filename)

	_, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(buffer.Bytes()))
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}

// Download fetches a stored file.
func (s *Service) Download(ctx context.Context, path string) ([]byte, error) {
	data, err := s.sbClient.DownloadFile(s.bucket, path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes a stored file.
func (s *Service) Delete(ctx context.Context, path string) error {
	_, err := s.sbClient.RemoveFile(s.bucket, []string{path})
	return err
}
