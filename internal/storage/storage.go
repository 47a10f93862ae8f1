// Package storage contains object storage abstractions for S3-compatible backends.
// Implementations stream content and never touch local disk.
package storage

import (
	"context"
	"io"
	"strings"
	"time"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set it to -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object storage client.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// Ping checks that the bucket is reachable.
	Ping(ctx context.Context) error
}

// PublicURLs maps object keys to the URLs clients download them from.
type PublicURLs struct {
	base string
}

// NewPublicURLs returns a mapper rooted at baseURL, e.g. "https://cdn.example.com/bucket".
func NewPublicURLs(baseURL string) PublicURLs {
	return PublicURLs{base: strings.TrimSuffix(baseURL, "/")}
}

// URL returns the public URL of key.
func (p PublicURLs) URL(key string) string {
	return p.base + "/" + strings.TrimPrefix(key, "/")
}

// Key extracts the object key from a URL produced by URL. It returns false
// for URLs that point elsewhere, such as avatars hosted by an OAuth2 provider.
func (p PublicURLs) Key(url string) (string, bool) {
	if p.base == "" || url == "" {
		return "", false
	}
	key, ok := strings.CutPrefix(url, p.base+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
