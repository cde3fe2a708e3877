// Package media stores post images with an external provider.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vaughan-dsouza/BeSocial/internal/config"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
)

const folder = "posts"

// Store uploads an image and returns its public URL.
type Store interface {
	Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
}

// New returns the configured backend, or nil when uploads are disabled.
func New(ctx context.Context, cfg config.MediaConfig) (Store, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "s3":
		return NewS3(ctx, cfg)
	case "cloudinary":
		return NewCloudinary(cfg)
	default:
		return nil, fmt.Errorf("media: unknown backend %q", cfg.Backend)
	}
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

// CheckImage rejects files whose extension is not an image or whose size
// exceeds max. A max of 0 disables the size check.
func CheckImage(filename string, size, max int64) error {
	if !imageExtensions[strings.ToLower(filepath.Ext(filename))] {
		return ErrUnsupportedType
	}
	if max > 0 && size > max {
		return ErrTooLarge
	}
	return nil
}

// SniffImage reads the file signature and returns the detected content
// type, rewinding r for the upload. Anything that does not sniff as an
// image is ErrUnsupportedType, whatever its name or declared type.
func SniffImage(r io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read image header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind image: %w", err)
	}

	contentType := http.DetectContentType(buf[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrUnsupportedType
	}
	return contentType, nil
}

// objectKey names an upload uniquely while keeping its extension.
func objectKey(filename string) string {
	return folder + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}
