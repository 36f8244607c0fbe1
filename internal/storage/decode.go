package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
	"github.com/anime-shed/tonal-inspector-go/pkg/models"
)

// ImageFetcher retrieves and decodes a remote image
type ImageFetcher interface {
	// Name identifies the backend in logs
	Name() string
	// Supports reports whether the fetcher can serve u
	Supports(u *url.URL) bool
	FetchImage(ctx context.Context, imageURL string) (*FetchedImage, error)
}

// FetchedImage is a decoded image plus what is known about its payload
type FetchedImage struct {
	Image    image.Image
	Metadata models.ImageMetadata
}

// readLimited reads at most maxBytes from r.
func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to read image body", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("image exceeds %d bytes", maxBytes), nil)
	}
	return data, nil
}

// decodeImage decodes data into an image, honouring EXIF orientation.
func decodeImage(data []byte, contentType string) (*FetchedImage, error) {
	if len(data) == 0 {
		return nil, apperrors.NewDecodeError("image body is empty", nil)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewDecodeError("unsupported or corrupt image data", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("failed to decode %s image", format), err)
	}

	bounds := img.Bounds()
	return &FetchedImage{
		Image: img,
		Metadata: models.ImageMetadata{
			Width:         bounds.Dx(),
			Height:        bounds.Dy(),
			TotalPixels:   int64(bounds.Dx()) * int64(bounds.Dy()),
			Format:        format,
			ContentType:   contentType,
			ContentLength: int64(len(data)),
		},
	}, nil
}
