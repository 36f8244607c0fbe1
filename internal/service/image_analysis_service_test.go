package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/anime-shed/tonal-inspector-go/internal/analyzer"
	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
	"github.com/anime-shed/tonal-inspector-go/internal/observer"
	"github.com/anime-shed/tonal-inspector-go/internal/render"
	"github.com/anime-shed/tonal-inspector-go/internal/storage"
	"github.com/anime-shed/tonal-inspector-go/pkg/models"
	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

type fakeRepository struct {
	img image.Image
	err error
}

func (f *fakeRepository) FetchImage(ctx context.Context, imageURL string) (*storage.FetchedImage, error) {
	if f.err != nil {
		return nil, f.err
	}
	b := f.img.Bounds()
	return &storage.FetchedImage{
		Image: f.img,
		Metadata: models.ImageMetadata{
			Width:       b.Dx(),
			Height:      b.Dy(),
			TotalPixels: int64(b.Dx() * b.Dy()),
			Format:      "png",
		},
	}, nil
}

func (f *fakeRepository) ValidateImageURL(imageURL string) error {
	if imageURL == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}
	return nil
}

type recorder struct {
	events []observer.EventType
}

func (r *recorder) OnEvent(ctx context.Context, event observer.AnalysisEvent) {
	r.events = append(r.events, event.EventType)
}

func (r *recorder) GetObserverName() string { return "recorder" }

func newService(repo *fakeRepository) (ImageAnalysisService, *recorder, *observer.MetricsObserver) {
	rec := &recorder{}
	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(rec)
	events.Subscribe(metrics)
	return NewImageAnalysisService(repo, analyzer.NewImageAnalyzer(), events), rec, metrics
}

func rampImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 256, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 256; x++ {
			v := uint8(x)
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func assertEvents(t *testing.T, got []observer.EventType, want ...observer.EventType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestAnalyzeImage_Success(t *testing.T) {
	svc, rec, metrics := newService(&fakeRepository{img: rampImage()})

	result, err := svc.AnalyzeImage(context.Background(), "https://example.com/ramp.png", analyzer.DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.ImageURL != "https://example.com/ramp.png" {
		t.Errorf("Unexpected image URL %q", result.ImageURL)
	}
	if result.Quality.Rating != quality.RatingGood {
		t.Errorf("Expected good rating, got %q", result.Quality.Rating)
	}
	if result.Image.Format != "png" || result.Image.TotalPixels != 512 {
		t.Errorf("Expected fetched metadata to be kept, got %+v", result.Image)
	}
	if result.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}

	assertEvents(t, rec.events, observer.AnalysisStarted, observer.ImageFetched, observer.AnalysisCompleted)
	if stats := metrics.Snapshot(); stats.SuccessfulAnalyses != 1 || stats.ReportsWithIssues != 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestAnalyzeImage_FetchFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType apperrors.ErrorType
	}{
		{"network error", apperrors.NewNetworkError("unexpected status code 404", nil), apperrors.ErrorTypeNetwork},
		{"decode error", apperrors.NewDecodeError("unsupported or corrupt image data", nil), apperrors.ErrorTypeDecode},
		{"untyped error", errors.New("connection reset"), apperrors.ErrorTypeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rec, metrics := newService(&fakeRepository{err: tt.err})

			result, err := svc.AnalyzeImage(context.Background(), "https://example.com/a.jpg", analyzer.DefaultOptions())
			if result != nil {
				t.Error("Expected no report on fetch failure")
			}
			if !apperrors.IsType(err, tt.wantType) {
				t.Errorf("Expected %s error, got %v", tt.wantType, err)
			}

			assertEvents(t, rec.events, observer.AnalysisStarted, observer.ImageFetchFailed, observer.AnalysisFailed)
			if stats := metrics.Snapshot(); stats.FetchFailures != 1 || stats.FailedAnalyses != 1 {
				t.Errorf("Unexpected stats %+v", stats)
			}
		})
	}
}

func TestAnalyzeImage_InvalidOptions(t *testing.T) {
	svc, rec, _ := newService(&fakeRepository{img: rampImage()})

	_, err := svc.AnalyzeImage(context.Background(), "https://example.com/a.png",
		analyzer.DefaultOptions().WithChannel("alpha"))
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
	assertEvents(t, rec.events, observer.AnalysisStarted, observer.ImageFetched, observer.AnalysisFailed)
}

func TestVisualizeImage(t *testing.T) {
	svc, _, _ := newService(&fakeRepository{img: rampImage()})

	data, err := svc.VisualizeImage(context.Background(), "https://example.com/ramp.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Expected PNG output: %v", err)
	}
	if img.Bounds().Size() != render.CanvasSize {
		t.Errorf("Expected %v canvas, got %v", render.CanvasSize, img.Bounds().Size())
	}
}

func TestValidateImageURL(t *testing.T) {
	svc, _, _ := newService(&fakeRepository{img: rampImage()})
	if err := svc.ValidateImageURL(""); err == nil {
		t.Error("Expected error for empty URL")
	}
}
