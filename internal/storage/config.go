package storage

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Config holds storage configuration
type Config struct {
	Type         string   // Only "mock" (local filesystem) is served
	UploadDir    string   // Directory for mock storage
	BaseURL      string   // Server base URL for generating mock URLs
	MaxFileSize  int64    // Bytes
	AllowedTypes []string // MIME types accepted for vehicle pictures
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Allowed reports whether contentType may be stored
func (c Config) Allowed(contentType string) bool {
	for _, t := range c.AllowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

// CarPictureKey builds a fresh storage key for a vehicle picture
func CarPictureKey(carID int32, contentType string) string {
	ext, ok := extensions[strings.ToLower(contentType)]
	if !ok {
		ext = ".bin"
	}
	return path.Join("cars", fmt.Sprint(carID), uuid.New().String()+ext)
}
