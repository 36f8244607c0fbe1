// Package quality estimates tonal quality (exposure, clipping, contrast)
// from a 256-level intensity histogram.
package quality

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
)

const (
	// Levels is the number of intensity buckets in a Histogram.
	Levels = 256
	// MaxLevel is the brightest intensity level.
	MaxLevel = Levels - 1
)

// Histogram holds the pixel count for every intensity level 0-255.
type Histogram [Levels]uint64

// Total returns the number of pixels counted by the histogram.
func (h Histogram) Total() uint64 {
	var sum uint64
	for _, c := range h {
		sum += c
	}
	return sum
}

// Occupied returns how many levels contain at least one pixel.
func (h Histogram) Occupied() int {
	n := 0
	for _, c := range h {
		if c > 0 {
			n++
		}
	}
	return n
}

// Counts returns the histogram as a float slice, index = level.
func (h Histogram) Counts() []float64 {
	out := make([]float64, Levels)
	for i, c := range h {
		out[i] = float64(c)
	}
	return out
}

// Rating values of a Report.
const (
	RatingGood           = "good"
	RatingIssuesDetected = "issues detected"
)

// FindingKind names a single diagnostic.
type FindingKind string

const (
	FindingOverexposed       FindingKind = "overexposed"
	FindingUnderexposed      FindingKind = "underexposed"
	FindingShadowClipping    FindingKind = "shadow_clipping"
	FindingHighlightClipping FindingKind = "highlight_clipping"
	FindingLowContrast       FindingKind = "low_contrast"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Finding represents one quality diagnostic
type Finding struct {
	Kind        FindingKind `json:"kind"`
	Message     string      `json:"message"`
	Severity    string      `json:"severity"`
	ActualValue float64     `json:"actual_value"`
	Threshold   float64     `json:"threshold"`
}

// Report is the result of estimating quality from one histogram.
type Report struct {
	Rating           string    `json:"rating"`
	AverageIntensity float64   `json:"average_intensity"`
	TonalCoverage    float64   `json:"tonal_coverage_percent"`
	PercentBlack     float64   `json:"percent_black"`
	PercentWhite     float64   `json:"percent_white"`
	Findings         []Finding `json:"findings"`
}

// HasIssues reports whether any finding was raised.
func (r Report) HasIssues() bool {
	return len(r.Findings) > 0
}

// Messages returns the finding messages in report order.
func (r Report) Messages() []string {
	messages := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		messages = append(messages, f.Message)
	}
	return messages
}

// Estimator turns histograms into quality reports
type Estimator struct {
	thresholds Thresholds
}

// NewEstimator creates an estimator with default thresholds
func NewEstimator() *Estimator {
	return &Estimator{thresholds: DefaultThresholds()}
}

// NewEstimatorWithThresholds creates an estimator with custom thresholds
func NewEstimatorWithThresholds(thresholds Thresholds) *Estimator {
	return &Estimator{thresholds: thresholds}
}

// Thresholds returns the thresholds the estimator applies.
func (e *Estimator) Thresholds() Thresholds {
	return e.thresholds
}

// Estimate evaluates h using the default thresholds.
func Estimate(h Histogram, totalPixels int64) (Report, error) {
	return NewEstimator().Estimate(h, totalPixels)
}

// Estimate computes the derived metrics of h and the findings they trigger.
// totalPixels must be positive and equal to the sum of h.
func (e *Estimator) Estimate(h Histogram, totalPixels int64) (Report, error) {
	if totalPixels <= 0 {
		return Report{}, apperrors.NewInvalidInputError(
			fmt.Sprintf("total pixel count must be positive (got %d)", totalPixels), nil)
	}
	if sum := h.Total(); sum != uint64(totalPixels) {
		return Report{}, apperrors.NewInvalidInputError(
			fmt.Sprintf("histogram counts %d pixels but total is %d", sum, totalPixels), nil)
	}

	total := float64(totalPixels)
	report := Report{
		PercentBlack:     float64(h[0]) / total * 100,
		PercentWhite:     float64(h[MaxLevel]) / total * 100,
		TonalCoverage:    float64(h.Occupied()) / Levels * 100,
		AverageIntensity: floats.Dot(levelValues, h.Counts()) / total,
		Findings:         []Finding{},
	}

	t := e.thresholds

	// Outer guard and inner branches share the same bounds on purpose:
	// target+deadband and target-deadband.
	if math.Abs(report.AverageIntensity-t.ExposureTarget) > t.ExposureDeadband {
		if report.AverageIntensity > t.ExposureTarget+t.ExposureDeadband {
			report.Findings = append(report.Findings, Finding{
				Kind:        FindingOverexposed,
				Message:     fmt.Sprintf("Image is overexposed (average intensity %.1f).", report.AverageIntensity),
				Severity:    SeverityError,
				ActualValue: report.AverageIntensity,
				Threshold:   t.ExposureTarget + t.ExposureDeadband,
			})
		} else if report.AverageIntensity < t.ExposureTarget-t.ExposureDeadband {
			report.Findings = append(report.Findings, Finding{
				Kind:        FindingUnderexposed,
				Message:     fmt.Sprintf("Image is underexposed (average intensity %.1f).", report.AverageIntensity),
				Severity:    SeverityError,
				ActualValue: report.AverageIntensity,
				Threshold:   t.ExposureTarget - t.ExposureDeadband,
			})
		}
	}

	if report.PercentBlack > t.ShadowClippingPercent {
		report.Findings = append(report.Findings, Finding{
			Kind:        FindingShadowClipping,
			Message:     fmt.Sprintf("Shadow detail lost (%.2f%% black pixels).", report.PercentBlack),
			Severity:    SeverityWarning,
			ActualValue: report.PercentBlack,
			Threshold:   t.ShadowClippingPercent,
		})
	}

	if report.PercentWhite > t.HighlightClippingPercent {
		report.Findings = append(report.Findings, Finding{
			Kind:        FindingHighlightClipping,
			Message:     fmt.Sprintf("Highlight detail lost (%.2f%% white pixels).", report.PercentWhite),
			Severity:    SeverityWarning,
			ActualValue: report.PercentWhite,
			Threshold:   t.HighlightClippingPercent,
		})
	}

	if report.TonalCoverage < t.MinTonalCoverage {
		report.Findings = append(report.Findings, Finding{
			Kind:        FindingLowContrast,
			Message:     fmt.Sprintf("Low contrast (%.1f%% tonal coverage).", report.TonalCoverage),
			Severity:    SeverityWarning,
			ActualValue: report.TonalCoverage,
			Threshold:   t.MinTonalCoverage,
		})
	}

	report.Rating = RatingGood
	if report.HasIssues() {
		report.Rating = RatingIssuesDetected
	}
	return report, nil
}

// levelValues is 0, 1, ..., 255.
var levelValues = func() []float64 {
	v := make([]float64, Levels)
	for i := range v {
		v[i] = float64(i)
	}
	return v
}()

// LevelValues returns a fresh slice of the intensity levels 0-255.
func LevelValues() []float64 {
	out := make([]float64, Levels)
	copy(out, levelValues)
	return out
}
