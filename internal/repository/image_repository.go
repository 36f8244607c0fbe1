package repository

import (
	"context"

	"github.com/sirupsen/logrus"

	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
	"github.com/anime-shed/tonal-inspector-go/internal/logger"
	"github.com/anime-shed/tonal-inspector-go/internal/storage"
	"github.com/anime-shed/tonal-inspector-go/pkg/validation"
)

// imageRepository routes validated URLs to the first fetcher that supports them
type imageRepository struct {
	validator *validation.URLValidator
	fetchers  []storage.ImageFetcher
}

// NewImageRepository creates a repository over the given fetchers. Order
// matters: more specific backends should come before the generic HTTP one.
func NewImageRepository(validator *validation.URLValidator, fetchers ...storage.ImageFetcher) ImageRepository {
	if validator == nil {
		validator = validation.NewURLValidator()
	}
	return &imageRepository{
		validator: validator,
		fetchers:  fetchers,
	}
}

func (r *imageRepository) FetchImage(ctx context.Context, imageURL string) (*storage.FetchedImage, error) {
	parsedURL, err := r.validator.ParseImageURL(imageURL)
	if err != nil {
		return nil, err
	}

	for _, fetcher := range r.fetchers {
		if !fetcher.Supports(parsedURL) {
			continue
		}
		logger.WithFields(logrus.Fields{
			"backend": fetcher.Name(),
			"host":    parsedURL.Hostname(),
		}).Debug("Fetching image")
		return fetcher.FetchImage(ctx, parsedURL.String())
	}

	return nil, apperrors.NewValidationError("no image source supports this URL", nil).
		WithDetails(parsedURL.Scheme + "://" + parsedURL.Host)
}

func (r *imageRepository) ValidateImageURL(imageURL string) error {
	return r.validator.ValidateImageURL(imageURL)
}
