package analyzer

import (
	"image"
	"time"

	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
	"github.com/anime-shed/tonal-inspector-go/internal/histogram"
	"github.com/anime-shed/tonal-inspector-go/pkg/models"
	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

type coreAnalyzer struct{}

// NewImageAnalyzer creates a new image analyzer
func NewImageAnalyzer() ImageAnalyzer {
	return &coreAnalyzer{}
}

// Analyze builds the channel histograms of img, estimates tonal quality on
// the selected channel and summarizes every channel.
func (ca *coreAnalyzer) Analyze(img image.Image, options AnalysisOptions) (*Analysis, error) {
	if img == nil {
		return nil, apperrors.NewInvalidInputError("no image to analyze", nil)
	}
	options, err := options.Normalize()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	set := histogram.ComputeAll(img)

	assessed, ok := set.Get(options.Channel)
	if !ok {
		return nil, apperrors.NewInternalError("no histogram for channel "+string(options.Channel), nil)
	}

	estimator := quality.NewEstimatorWithThresholds(options.Thresholds)
	report, err := estimator.Estimate(assessed, set.Pixels())
	if err != nil {
		return nil, err
	}

	result := models.AnalysisResult{
		Timestamp: start,
		Image: models.ImageMetadata{
			Width:       set.Width,
			Height:      set.Height,
			TotalPixels: set.Pixels(),
		},
		AssessedChannel: string(options.Channel),
		Quality:         report,
		Channels:        make([]models.ChannelSummary, 0, len(histogram.Channels)),
	}

	for _, ch := range histogram.Channels {
		h, _ := set.Get(ch)
		result.Channels = append(result.Channels, summarize(ch, h, options.IncludeHistograms))
	}

	result.ProcessingTimeSec = time.Since(start).Seconds()
	return &Analysis{Result: result, Histograms: set}, nil
}

func summarize(ch histogram.Channel, h quality.Histogram, withCounts bool) models.ChannelSummary {
	stats := histogram.Summarize(h)
	summary := models.ChannelSummary{
		Channel:  string(ch),
		Mean:     stats.Mean,
		StdDev:   stats.StdDev,
		Median:   stats.Median,
		MinLevel: stats.Min,
		MaxLevel: stats.Max,
	}
	if withCounts {
		summary.Counts = append([]uint64(nil), h[:]...)
	}
	return summary
}
