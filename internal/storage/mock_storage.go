package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"carrental-backend/internal/logger"

	"github.com/google/uuid"
)

type pendingUpload struct {
	key       string
	expiresAt time.Time
}

// MockStorageService stores pictures on the local filesystem and
// hands out upload URLs that point back at this server.
type MockStorageService struct {
	baseURL   string
	imagesDir string

	mu      sync.Mutex
	pending map[string]pendingUpload
	now     func() time.Time
}

// NewMockStorageService creates a new mock storage service
func NewMockStorageService(baseURL, uploadsDir string) (*MockStorageService, error) {
	imagesDir := filepath.Join(uploadsDir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}

	return &MockStorageService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		imagesDir: imagesDir,
		pending:   make(map[string]pendingUpload),
		now:       time.Now,
	}, nil
}

func (m *MockStorageService) GeneratePresignedUploadURL(
	ctx context.Context,
	key string,
	contentType string,
	expiresIn time.Duration,
) (string, error) {
	if _, err := m.path(key); err != nil {
		return "", err
	}

	uploadToken := uuid.New().String()

	m.mu.Lock()
	m.pruneLocked()
	m.pending[uploadToken] = pendingUpload{key: key, expiresAt: m.now().Add(expiresIn)}
	m.mu.Unlock()

	logger.Debug("Issued upload token", "key", key, "content_type", contentType, "expires_in", expiresIn)
	return fmt.Sprintf("%s/api/v1/uploads/%s?key=%s", m.baseURL, uploadToken, url.QueryEscape(key)), nil
}

func (m *MockStorageService) GeneratePresignedDownloadURL(
	ctx context.Context,
	key string,
	expiresIn time.Duration,
) (string, error) {
	if _, err := m.path(key); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/v1/downloads/%s?key=%s", m.baseURL, encodeKey(key), url.QueryEscape(key)), nil
}

func (m *MockStorageService) ConsumeUploadToken(token, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pending[token]
	if !ok || p.key != key || m.now().After(p.expiresAt) {
		return ErrInvalidUploadToken
	}
	delete(m.pending, token)
	return nil
}

// pruneLocked drops expired tokens. Callers hold m.mu.
func (m *MockStorageService) pruneLocked() {
	now := m.now()
	for token, p := range m.pending {
		if now.After(p.expiresAt) {
			delete(m.pending, token)
		}
	}
}

func (m *MockStorageService) FileExists(ctx context.Context, key string) (bool, int64, error) {
	fullPath, err := m.path(key)
	if err != nil {
		return false, 0, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (m *MockStorageService) DeleteFile(ctx context.Context, key string) error {
	fullPath, err := m.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (m *MockStorageService) SaveFile(key string, reader io.Reader) error {
	fullPath, err := m.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err = io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Info("Stored file", "key", key)
	return nil
}

func (m *MockStorageService) ReadFile(key string) (io.ReadCloser, error) {
	fullPath, err := m.path(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// path resolves key inside the images directory and rejects traversal
func (m *MockStorageService) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || filepath.IsAbs(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(m.imagesDir, filepath.FromSlash(key)), nil
}

// encodeKey creates a URL-safe hash of the key
func encodeKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16])
}
