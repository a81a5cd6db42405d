package image

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStorage struct {
	uploads []struct{ key, contentType string }
}

func (s *fakeStorage) PresignUpload(_ context.Context, key, contentType string) (*PresignedURL, error) {
	s.uploads = append(s.uploads, struct{ key, contentType string }{key, contentType})
	return &PresignedURL{
		URL:       "https://bucket.example.com/" + key,
		Method:    "PUT",
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil
}

func (s *fakeStorage) PresignDownload(_ context.Context, key string) (*PresignedURL, error) {
	return &PresignedURL{URL: "https://bucket.example.com/" + key, Method: "GET"}, nil
}

func (s *fakeStorage) PresignDelete(_ context.Context, key string) (*PresignedURL, error) {
	return &PresignedURL{URL: "https://bucket.example.com/" + key, Method: "DELETE"}, nil
}

func TestUploadURL(t *testing.T) {
	ctx := context.Background()

	t.Run("generates a fresh key keeping the extension", func(t *testing.T) {
		storage := &fakeStorage{}
		svc := NewService(storage, zap.NewNop())

		url, err := svc.UploadURL(ctx, &UploadRequest{FileName: "selfie.JPG"})
		require.NoError(t, err)
		assert.Equal(t, "PUT", url.Method)

		require.Len(t, storage.uploads, 1)
		up := storage.uploads[0]
		assert.True(t, strings.HasSuffix(up.key, ".jpg"))
		assert.Equal(t, "image/jpeg", up.contentType)

		// The key must not leak the client-chosen name.
		_, err = uuid.Parse(strings.TrimSuffix(up.key, ".jpg"))
		assert.NoError(t, err)
	})

	t.Run("png gets its own content type", func(t *testing.T) {
		storage := &fakeStorage{}
		svc := NewService(storage, zap.NewNop())

		_, err := svc.UploadURL(ctx, &UploadRequest{FileName: "photo.png"})
		require.NoError(t, err)
		assert.Equal(t, "image/png", storage.uploads[0].contentType)
	})

	t.Run("rejects unsupported names", func(t *testing.T) {
		svc := NewService(&fakeStorage{}, zap.NewNop())
		for _, name := range []string{"", "noext", "archive.zip", "photo.", ".png"} {
			_, err := svc.UploadURL(ctx, &UploadRequest{FileName: name})
			assert.ErrorIs(t, err, ErrInvalidFileName, name)
		}
	})

	t.Run("multi upload issues one url per file", func(t *testing.T) {
		storage := &fakeStorage{}
		svc := NewService(storage, zap.NewNop())

		urls, err := svc.UploadURLs(ctx, &MultiUploadRequest{FileNames: []string{"a.jpg", "b.png"}})
		require.NoError(t, err)
		assert.Len(t, urls, 2)
		assert.Len(t, storage.uploads, 2)
	})

	t.Run("multi upload fails atomically on a bad name", func(t *testing.T) {
		svc := NewService(&fakeStorage{}, zap.NewNop())
		_, err := svc.UploadURLs(ctx, &MultiUploadRequest{FileNames: []string{"a.jpg", "b.gif"}})
		assert.ErrorIs(t, err, ErrInvalidFileName)
	})
}

func TestDownloadAndDeleteURL(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeStorage{}, zap.NewNop())

	url, err := svc.DownloadURL(ctx, "abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, "GET", url.Method)

	url, err = svc.DeleteURL(ctx, "abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, "DELETE", url.Method)

	_, err = svc.DownloadURL(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidFileName)
	_, err = svc.DeleteURL(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidFileName)
}
