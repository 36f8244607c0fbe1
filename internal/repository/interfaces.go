package repository

import (
	"context"

	"github.com/anime-shed/tonal-inspector-go/internal/storage"
)

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// FetchImage validates imageURL and retrieves the decoded image from
	// whichever backend serves it
	FetchImage(ctx context.Context, imageURL string) (*storage.FetchedImage, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error
}
