package analyzer

import (
	"testing"

	"github.com/anime-shed/tonal-inspector-go/internal/histogram"
	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Channel != histogram.Gray {
		t.Errorf("Expected gray channel by default, got %q", opts.Channel)
	}
	if opts.Thresholds != quality.DefaultThresholds() {
		t.Errorf("Expected default thresholds, got %+v", opts.Thresholds)
	}
	if opts.IncludeHistograms {
		t.Error("Expected IncludeHistograms to be false by default")
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Expected default options to be valid, got %v", err)
	}
}

func TestOptionBuilders(t *testing.T) {
	custom := quality.DefaultThresholds()
	custom.MinTonalCoverage = 30

	base := DefaultOptions()
	opts := base.WithChannel(histogram.Green).WithThresholds(custom).WithHistograms()

	if opts.Channel != histogram.Green {
		t.Errorf("Expected green channel, got %q", opts.Channel)
	}
	if opts.Thresholds.MinTonalCoverage != 30 {
		t.Errorf("Expected coverage threshold 30, got %f", opts.Thresholds.MinTonalCoverage)
	}
	if !opts.IncludeHistograms {
		t.Error("Expected IncludeHistograms to be true")
	}

	// Builders work on copies.
	if base.Channel != histogram.Gray || base.IncludeHistograms {
		t.Error("Builders must not modify the receiver")
	}
}
