package domain

import (
	"context"
)

// ImageStore defines the interface for exercise image storage
type ImageStore interface {
	// Upload saves an object under key and returns its public URL
	Upload(ctx context.Context, data []byte, key string, contentType string) (string, error)
	// Delete removes the object behind a URL previously returned by Upload
	Delete(ctx context.Context, url string) error
}
