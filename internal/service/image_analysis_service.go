package service

import (
	"bytes"
	"context"
	"image"
	"time"

	"github.com/anime-shed/tonal-inspector-go/internal/analyzer"
	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
	"github.com/anime-shed/tonal-inspector-go/internal/histogram"
	"github.com/anime-shed/tonal-inspector-go/internal/observer"
	"github.com/anime-shed/tonal-inspector-go/internal/render"
	"github.com/anime-shed/tonal-inspector-go/internal/repository"
	"github.com/anime-shed/tonal-inspector-go/pkg/models"
)

// ImageAnalysisService fetches images and produces tonal quality reports
type ImageAnalysisService interface {
	// Inspect runs the whole pipeline and keeps the decoded image and its
	// histograms for further rendering
	Inspect(ctx context.Context, imageURL string, options analyzer.AnalysisOptions) (*Inspection, error)

	AnalyzeImage(ctx context.Context, imageURL string, options analyzer.AnalysisOptions) (*models.AnalysisResult, error)

	// VisualizeImage returns the histogram visualization as PNG bytes
	VisualizeImage(ctx context.Context, imageURL string) ([]byte, error)

	ValidateImageURL(imageURL string) error
}

// Inspection is everything produced for one image
type Inspection struct {
	Result     models.AnalysisResult
	Image      image.Image
	Histograms histogram.Set
}

type imageAnalysisService struct {
	imageRepo repository.ImageRepository
	analyzer  analyzer.ImageAnalyzer
	events    observer.Subject
}

// NewImageAnalysisService creates a new image analysis service. events may be
// nil when nobody listens.
func NewImageAnalysisService(
	imageRepository repository.ImageRepository,
	imageAnalyzer analyzer.ImageAnalyzer,
	events observer.Subject,
) ImageAnalysisService {
	if events == nil {
		events = observer.NewEventPublisher()
	}
	return &imageAnalysisService{
		imageRepo: imageRepository,
		analyzer:  imageAnalyzer,
		events:    events,
	}
}

func (s *imageAnalysisService) Inspect(ctx context.Context, imageURL string, options analyzer.AnalysisOptions) (*Inspection, error) {
	start := time.Now()
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		ImageURL:  imageURL,
	})

	fetched, err := s.imageRepo.FetchImage(ctx, imageURL)
	if err != nil {
		appErr := asAppError(err, apperrors.NewNetworkError)
		s.events.NotifyObservers(ctx, failureEvent(observer.ImageFetchFailed, imageURL, start, appErr))
		s.events.NotifyObservers(ctx, failureEvent(observer.AnalysisFailed, imageURL, start, appErr))
		return nil, appErr
	}

	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType: observer.ImageFetched,
		ImageURL:  imageURL,
		Success:   true,
		Metadata: map[string]interface{}{
			"width":  fetched.Metadata.Width,
			"height": fetched.Metadata.Height,
			"format": fetched.Metadata.Format,
			"bytes":  fetched.Metadata.ContentLength,
		},
	})

	analysis, err := s.analyzer.Analyze(fetched.Image, options)
	if err != nil {
		appErr := asAppError(err, apperrors.NewProcessingError)
		s.events.NotifyObservers(ctx, failureEvent(observer.AnalysisFailed, imageURL, start, appErr))
		return nil, appErr
	}

	result := analysis.Result
	result.ImageURL = imageURL
	result.Timestamp = start
	result.Image = fetched.Metadata
	result.ProcessingTimeSec = time.Since(start).Seconds()

	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		ImageURL:       imageURL,
		ProcessingTime: time.Since(start),
		Success:        true,
		IssuesDetected: result.Quality.HasIssues(),
		Metadata: map[string]interface{}{
			"rating":   result.Quality.Rating,
			"channel":  result.AssessedChannel,
			"findings": len(result.Quality.Findings),
		},
	})

	return &Inspection{
		Result:     result,
		Image:      fetched.Image,
		Histograms: analysis.Histograms,
	}, nil
}

func (s *imageAnalysisService) AnalyzeImage(ctx context.Context, imageURL string, options analyzer.AnalysisOptions) (*models.AnalysisResult, error) {
	inspection, err := s.Inspect(ctx, imageURL, options)
	if err != nil {
		return nil, err
	}
	return &inspection.Result, nil
}

func (s *imageAnalysisService) VisualizeImage(ctx context.Context, imageURL string) ([]byte, error) {
	inspection, err := s.Inspect(ctx, imageURL, analyzer.DefaultOptions())
	if err != nil {
		return nil, err
	}

	canvas, err := render.Visualize(inspection.Image, inspection.Histograms)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *imageAnalysisService) ValidateImageURL(imageURL string) error {
	return s.imageRepo.ValidateImageURL(imageURL)
}

// asAppError keeps typed errors as they are and wraps anything else with wrap.
func asAppError(err error, wrap func(string, error) *apperrors.AppError) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}
	return wrap(err.Error(), err)
}

func failureEvent(eventType observer.EventType, imageURL string, start time.Time, err *apperrors.AppError) observer.AnalysisEvent {
	return observer.AnalysisEvent{
		EventType:      eventType,
		ImageURL:       imageURL,
		ProcessingTime: time.Since(start),
		ErrorType:      string(err.Type),
		ErrorMessage:   err.Error(),
	}
}
