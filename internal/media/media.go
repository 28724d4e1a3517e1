// Package media wraps the external image store. Catalog code depends on
// the Uploader interface only; the Cloudinary implementation lives in
// cloudinary.go.
package media

import (
	"context"
	"io"
)

// Asset is a stored image: a public URL for display and the provider-side
// id needed to delete it later.
type Asset struct {
	URL      string
	PublicID string
}

// Uploader is the object store boundary for product images.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}
