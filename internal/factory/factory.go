package factory

import (
	"fmt"

	"github.com/anime-shed/tonal-inspector-go/internal/config"
	"github.com/anime-shed/tonal-inspector-go/internal/storage"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for plain HTTP(S) image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// StorageFactory creates image fetchers
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
	// EnabledStorages returns every configured fetcher, most specific first
	EnabledStorages() ([]storage.ImageFetcher, error)
}

type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(storage.HTTPOptions{
			UserAgent: f.cfg.UserAgent,
			MaxBytes:  f.cfg.MaxImageBytes,
			Timeout:   f.cfg.ImageFetchTimeout,
		}), nil
	case AzureStorage:
		if !f.cfg.AzureEnabled() {
			return nil, fmt.Errorf("azure storage requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		return storage.NewAzureBlobFetcher(f.cfg.AzureAccountName, f.cfg.AzureAccountKey, f.cfg.MaxImageBytes)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

func (f *storageFactory) EnabledStorages() ([]storage.ImageFetcher, error) {
	types := []StorageType{HTTPStorage}
	if f.cfg.AzureEnabled() {
		types = []StorageType{AzureStorage, HTTPStorage}
	}

	fetchers := make([]storage.ImageFetcher, 0, len(types))
	for _, t := range types {
		fetcher, err := f.CreateStorage(t)
		if err != nil {
			return nil, fmt.Errorf("create %s storage: %w", t, err)
		}
		fetchers = append(fetchers, fetcher)
	}
	return fetchers, nil
}
