package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidUploadToken = errors.New("upload token is invalid or expired")
	ErrInvalidKey         = errors.New("invalid storage key")
)

// StorageInterface defines the backend for vehicle pictures
type StorageInterface interface {
	// GeneratePresignedUploadURL returns a URL the client may PUT the file to until expiresIn passes
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	DeleteFile(ctx context.Context, key string) error

	// ConsumeUploadToken validates a token issued for key. Tokens are single use.
	ConsumeUploadToken(token, key string) error

	// SaveFile and ReadFile back the local upload/download handlers
	SaveFile(key string, reader io.Reader) error
	ReadFile(key string) (io.ReadCloser, error)
}
