package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/vaughan-dsouza/BeSocial/internal/config"
)

type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cfg config.MediaConfig) (*Cloudinary, error) {
	if cfg.CloudinaryCloud == "" || cfg.CloudinaryKey == "" || cfg.CloudinarySecret == "" {
		return nil, errors.New("media: CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for cloudinary")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret)
	if err != nil {
		return nil, fmt.Errorf("media: init cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, filename, _ string) (string, error) {
	// Cloudinary adds the extension itself and takes the folder separately.
	key := objectKey(filename)
	publicID := strings.TrimSuffix(path.Base(key), path.Ext(key))

	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: publicID,
		Folder:   folder,
	})
	if err != nil {
		return "", fmt.Errorf("media: cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("media: cloudinary upload: %s", resp.Error.Message)
	}

	return resp.SecureURL, nil
}
