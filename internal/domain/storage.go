package domain

import "context"

// StoredImage is the handle returned by the object store for an upload.
type StoredImage struct {
	URL string
	Key string
}

// ImageStorage abstracts the external object store holding listing images.
// The domain only ever handles {url, key} references, never provider
// specifics.
type ImageStorage interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (*StoredImage, error)
	Delete(ctx context.Context, key string) error
}
