package media

import (
	"context"
	"fmt"
	"io"

	"storefront/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary creates an Uploader backed by Cloudinary.
func NewCloudinary(cfg config.CloudinaryConfig) (Uploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &cloudinaryUploader{cld: cld, folder: cfg.Folder}, nil
}

// Upload stores the image and returns its public URL and id.
func (u *cloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename string) (*Asset, error) {
	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:           u.folder,
		FilenameOverride: filename,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &Asset{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
	}, nil
}

// Destroy deletes a stored image by its public id.
func (u *cloudinaryUploader) Destroy(ctx context.Context, publicID string) error {
	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	return nil
}
