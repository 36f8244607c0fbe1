package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
)

// AzureBlobFetcher downloads images from one Azure storage account
type AzureBlobFetcher struct {
	client   *azblob.Client
	host     string
	maxBytes int64
}

// NewAzureBlobFetcher creates a fetcher for https://<account>.blob.core.windows.net URLs
func NewAzureBlobFetcher(accountName, accountKey string, maxBytes int64) (ImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	host := fmt.Sprintf("%s.blob.core.windows.net", accountName)
	client, err := azblob.NewClientWithSharedKeyCredential("https://"+host, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	if maxBytes <= 0 {
		maxBytes = 50 * 1024 * 1024
	}
	return &AzureBlobFetcher{client: client, host: host, maxBytes: maxBytes}, nil
}

func (s *AzureBlobFetcher) Name() string {
	return "azure"
}

func (s *AzureBlobFetcher) Supports(u *url.URL) bool {
	return u.Scheme == "https" && strings.EqualFold(u.Hostname(), s.host)
}

func (s *AzureBlobFetcher) FetchImage(ctx context.Context, blobURL string) (*FetchedImage, error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid blob URL", err)
	}

	containerName, blobName, err := parseBlobPath(parsedURL)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		switch {
		case bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound):
			return nil, apperrors.NewNotFoundError("blob not found", err)
		case isTimeout(err):
			return nil, apperrors.NewTimeoutError("blob download timed out", err)
		default:
			return nil, apperrors.NewNetworkError("blob download failed", err)
		}
	}
	defer resp.Body.Close()

	data, err := readLimited(resp.Body, s.maxBytes)
	if err != nil {
		return nil, err
	}

	contentType := ""
	if resp.ContentType != nil {
		contentType = *resp.ContentType
	}
	return decodeImage(data, contentType)
}

// parseBlobPath splits /<container>/<blob path> into its parts.
func parseBlobPath(u *url.URL) (string, string, error) {
	path := strings.TrimPrefix(u.Path, "/")
	containerName, blobName, ok := strings.Cut(path, "/")
	if !ok || containerName == "" || blobName == "" {
		return "", "", apperrors.NewValidationError("blob URL must look like /<container>/<blob>", nil).
			WithDetails(u.Path)
	}
	return containerName, blobName, nil
}
