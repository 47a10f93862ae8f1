package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"textok/internal/storage"
)

const profileKeyPrefix = "profiles/"

var ErrNotAnImage = Invalid("profile image must be an image file")

// ProfileImageService stores profile pictures in object storage.
type ProfileImageService interface {
	// Upload stores the image under a fresh key and returns its public URL.
	Upload(ctx context.Context, img *ImageUpload) (string, error)
	// Delete removes the object behind url. URLs that do not point into our
	// bucket, such as provider avatars, are left alone.
	Delete(ctx context.Context, url string) error
}

type profileImageService struct {
	store storage.Storage
	urls  storage.PublicURLs
}

// NewProfileImageService constructs a ProfileImageService.
func NewProfileImageService(store storage.Storage, urls storage.PublicURLs) ProfileImageService {
	return &profileImageService{store: store, urls: urls}
}

func (s *profileImageService) Upload(ctx context.Context, img *ImageUpload) (string, error) {
	if img == nil || img.Reader == nil {
		return "", ErrNotAnImage
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return "", ErrNotAnImage
	}

	key := profileKeyPrefix + uuid.NewString() + strings.ToLower(path.Ext(img.Filename))
	info, err := s.store.Put(ctx, key, img.Reader, storage.PutObjectOptions{
		Size:        img.Size,
		ContentType: img.ContentType,
		Metadata:    map[string]string{"original-filename": img.Filename},
	})
	if err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}
	return s.urls.URL(info.Key), nil
}

func (s *profileImageService) Delete(ctx context.Context, url string) error {
	key, ok := s.urls.Key(url)
	if !ok {
		return nil
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return nil
}
