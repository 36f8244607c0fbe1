package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/tonal-inspector-go/internal/analyzer"
	"github.com/anime-shed/tonal-inspector-go/internal/config"
	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
	"github.com/anime-shed/tonal-inspector-go/internal/histogram"
	"github.com/anime-shed/tonal-inspector-go/internal/logger"
	"github.com/anime-shed/tonal-inspector-go/internal/observer"
	"github.com/anime-shed/tonal-inspector-go/internal/service"
	"github.com/anime-shed/tonal-inspector-go/pkg/models"
)

const version = "1.0.0"

type handler struct {
	service service.ImageAnalysisService
	metrics *observer.MetricsObserver
	cfg     *config.Config
}

// NewHandler builds the gin engine serving the tonal inspection API.
func NewHandler(svc service.ImageAnalysisService, metrics *observer.MetricsObserver, cfg *config.Config) http.Handler {
	h := &handler{service: svc, metrics: metrics, cfg: cfg}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.GET("/stats", h.stats)
	r.POST("/analyze", h.analyzeImage)
	r.POST("/visualize", h.visualizeImage)

	return r
}

func (h *handler) analyzeImage(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request format", err))
		return
	}

	channel, err := histogram.ParseChannel(req.Channel)
	if err != nil {
		respondError(c, apperrors.NewValidationError("invalid channel", err))
		return
	}

	thresholds := h.cfg.Thresholds
	if len(req.Thresholds) > 0 {
		if err := json.Unmarshal(req.Thresholds, &thresholds); err != nil {
			respondError(c, apperrors.NewValidationError("invalid thresholds", err))
			return
		}
		if err := thresholds.Validate(); err != nil {
			respondError(c, apperrors.NewValidationError("invalid thresholds", err))
			return
		}
	}

	options := analyzer.DefaultOptions().
		WithChannel(channel).
		WithThresholds(thresholds)
	if req.IncludeHistograms {
		options = options.WithHistograms()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.ImageFetchTimeout)
	defer cancel()

	result, err := h.service.AnalyzeImage(ctx, req.URL, options)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"url":                req.URL,
		"channel":            result.AssessedChannel,
		"rating":             result.Quality.Rating,
		"findings":           len(result.Quality.Findings),
		"processing_time_ms": int64(result.ProcessingTimeSec * 1000),
	}).Info("Image analysis completed successfully")

	c.JSON(http.StatusOK, result)
}

func (h *handler) visualizeImage(c *gin.Context) {
	var req models.VisualizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request format", err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.ImageFetchTimeout)
	defer cancel()

	data, err := h.service.VisualizeImage(ctx, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

func (h *handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}).Debug("Request handled")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respondError(c, c.Errors.Last().Err)
		}
	}
}

// toAppError maps any error to the AppError reported to clients.
func toAppError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("request timed out", err)
	case errors.Is(err, context.Canceled):
		return apperrors.NewNetworkError("request cancelled", err)
	default:
		return apperrors.NewInternalError("request processing failed", err)
	}
}

func respondError(c *gin.Context, err error) {
	appErr := toAppError(err)

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": appErr.StatusCode,
		"error_type":  appErr.Type,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if appErr.StatusCode >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	message := appErr.Message
	if appErr.Details != "" {
		message += ": " + appErr.Details
	}
	c.AbortWithStatusJSON(appErr.StatusCode, models.ErrorResponse{
		Error:   http.StatusText(appErr.StatusCode),
		Type:    string(appErr.Type),
		Message: message,
	})
}
