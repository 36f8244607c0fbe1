package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/tonal-inspector-go/internal/analyzer"
	"github.com/anime-shed/tonal-inspector-go/internal/config"
	"github.com/anime-shed/tonal-inspector-go/internal/factory"
	"github.com/anime-shed/tonal-inspector-go/internal/logger"
	"github.com/anime-shed/tonal-inspector-go/internal/observer"
	"github.com/anime-shed/tonal-inspector-go/internal/repository"
	"github.com/anime-shed/tonal-inspector-go/internal/service"
	"github.com/anime-shed/tonal-inspector-go/internal/transport"
	"github.com/anime-shed/tonal-inspector-go/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config               *config.Config
	imageRepository      repository.ImageRepository
	imageAnalysisService service.ImageAnalysisService
	metrics              *observer.MetricsObserver
	handler              http.Handler
}

// NewContainer wires the application from cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	fetchers, err := factory.NewStorageFactory(cfg).EnabledStorages()
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}

	validator := validation.NewURLValidatorWithOptions([]string{"http", "https"}, cfg.AllowedHosts)
	imageRepository := repository.NewImageRepository(validator, fetchers...)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	imageAnalysisService := service.NewImageAnalysisService(imageRepository, analyzer.NewImageAnalyzer(), events)

	return &Container{
		config:               cfg,
		imageRepository:      imageRepository,
		imageAnalysisService: imageAnalysisService,
		metrics:              metrics,
		handler:              transport.NewHandler(imageAnalysisService, metrics, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Service returns the analysis service
func (c *Container) Service() service.ImageAnalysisService {
	return c.imageAnalysisService
}

// Metrics returns the metrics observer backing the stats endpoint
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
