package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// MaxUploadSize bounds a single product image.
const MaxUploadSize = 5 << 20

var ErrUnsupportedType = errors.New("only jpeg, png and webp images are allowed")

var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Store persists an uploaded image under name and returns its public URL.
type Store interface {
	Save(ctx context.Context, r io.Reader, name string) (string, error)
}

// Sniff detects the image type from the first 512 bytes and rewinds r. It
// returns the file extension for the detected type.
func Sniff(r io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("read: %w", err)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek reset: %w", err)
	}

	ext, ok := allowed[http.DetectContentType(buf[:n])]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// NewName returns a collision free file name for an upload.
func NewName(ext string) string {
	return "prod_img_" + uuid.NewString() + ext
}
