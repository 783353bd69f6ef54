package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenFrom(t *testing.T, raw string) (string, string) {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return strings.TrimPrefix(u.Path, "/api/v1/uploads/"), u.Query().Get("key")
}

func TestMockStorage_UploadRoundTrip(t *testing.T) {
	s, err := NewMockStorageService("http://localhost:8080/", t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := CarPictureKey(7, "image/png")
	assert.True(t, strings.HasPrefix(key, "cars/7/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	uploadURL, err := s.GeneratePresignedUploadURL(ctx, key, "image/png", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uploadURL, "http://localhost:8080/api/v1/uploads/"))

	token, gotKey := tokenFrom(t, uploadURL)
	assert.Equal(t, key, gotKey)
	require.NoError(t, s.ConsumeUploadToken(token, key))
	assert.ErrorIs(t, s.ConsumeUploadToken(token, key), ErrInvalidUploadToken)

	require.NoError(t, s.SaveFile(key, strings.NewReader("picture")))
	exists, size, err := s.FileExists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, int64(7), size)

	rc, err := s.ReadFile(key)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "picture", string(body))

	require.NoError(t, s.DeleteFile(ctx, key))
	exists, _, err = s.FileExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMockStorage_TokenRules(t *testing.T) {
	s, err := NewMockStorageService("http://localhost:8080", t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	uploadURL, err := s.GeneratePresignedUploadURL(ctx, "cars/1/a.jpg", "image/jpeg", time.Minute)
	require.NoError(t, err)
	token, _ := tokenFrom(t, uploadURL)

	t.Run("Wrong key", func(t *testing.T) {
		assert.ErrorIs(t, s.ConsumeUploadToken(token, "cars/2/a.jpg"), ErrInvalidUploadToken)
	})

	t.Run("Expired", func(t *testing.T) {
		s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		defer func() { s.now = time.Now }()
		assert.ErrorIs(t, s.ConsumeUploadToken(token, "cars/1/a.jpg"), ErrInvalidUploadToken)
	})

	t.Run("Unknown", func(t *testing.T) {
		assert.ErrorIs(t, s.ConsumeUploadToken("nope", "cars/1/a.jpg"), ErrInvalidUploadToken)
	})
}

func TestMockStorage_RejectsTraversal(t *testing.T) {
	s, err := NewMockStorageService("http://localhost:8080", t.TempDir())
	require.NoError(t, err)

	_, err = s.GeneratePresignedUploadURL(context.Background(), "../etc/passwd", "image/png", time.Minute)
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, s.SaveFile("/abs", strings.NewReader("x")), ErrInvalidKey)
}

func TestConfig_Allowed(t *testing.T) {
	c := Config{AllowedTypes: []string{"image/jpeg", "image/png"}}
	assert.True(t, c.Allowed("IMAGE/PNG"))
	assert.False(t, c.Allowed("application/pdf"))
}
