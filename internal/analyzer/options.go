package analyzer

import (
	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
	"github.com/anime-shed/tonal-inspector-go/internal/histogram"
	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

// AnalysisOptions provides flexible configuration for image analysis
type AnalysisOptions struct {
	// Channel the quality report is estimated on
	Channel histogram.Channel

	Thresholds quality.Thresholds

	// IncludeHistograms copies the raw bucket counts into each channel summary
	IncludeHistograms bool
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		Channel:    histogram.Gray,
		Thresholds: quality.DefaultThresholds(),
	}
}

// WithChannel selects the channel the report is estimated on
func (opts AnalysisOptions) WithChannel(ch histogram.Channel) AnalysisOptions {
	opts.Channel = ch
	return opts
}

// WithThresholds replaces the estimator thresholds
func (opts AnalysisOptions) WithThresholds(thresholds quality.Thresholds) AnalysisOptions {
	opts.Thresholds = thresholds
	return opts
}

// WithHistograms includes the raw histogram counts in the result
func (opts AnalysisOptions) WithHistograms() AnalysisOptions {
	opts.IncludeHistograms = true
	return opts
}

// Normalize validates the options and returns a copy whose Channel is one of
// the histogram.Channel constants, so aliases such as "r" or "grey" resolve
// to the channel they name.
func (opts AnalysisOptions) Normalize() (AnalysisOptions, error) {
	ch, err := histogram.ParseChannel(string(opts.Channel))
	if err != nil {
		return opts, apperrors.NewValidationError("invalid channel", err)
	}
	opts.Channel = ch
	if err := opts.Thresholds.Validate(); err != nil {
		return opts, apperrors.NewValidationError("invalid thresholds", err)
	}
	return opts, nil
}

// Validate checks the channel and thresholds
func (opts AnalysisOptions) Validate() error {
	_, err := opts.Normalize()
	return err
}
