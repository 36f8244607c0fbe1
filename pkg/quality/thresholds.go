package quality

import "fmt"

// Default thresholds for the tonal quality heuristic.
const (
	// DefaultExposureTarget is the mid-grey level the average intensity is compared against.
	DefaultExposureTarget = 128.0
	// DefaultExposureDeadband is how far the average may drift from the target before exposure is flagged.
	DefaultExposureDeadband = 40.0
	// DefaultClippingPercent is the share of pixels pinned at 0 or 255 above which detail is considered lost.
	DefaultClippingPercent = 0.5
	// DefaultMinTonalCoverage is the share of occupied intensity levels below which contrast is considered low.
	DefaultMinTonalCoverage = 60.0
)

// Thresholds defines configurable thresholds for quality estimation.
// Percentages are expressed on a 0-100 scale.
type Thresholds struct {
	ExposureTarget           float64 `json:"exposure_target" yaml:"exposure_target"`
	ExposureDeadband         float64 `json:"exposure_deadband" yaml:"exposure_deadband"`
	ShadowClippingPercent    float64 `json:"shadow_clipping_percent" yaml:"shadow_clipping_percent"`
	HighlightClippingPercent float64 `json:"highlight_clipping_percent" yaml:"highlight_clipping_percent"`
	MinTonalCoverage         float64 `json:"min_tonal_coverage" yaml:"min_tonal_coverage"`
}

// DefaultThresholds returns the default quality thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExposureTarget:           DefaultExposureTarget,
		ExposureDeadband:         DefaultExposureDeadband,
		ShadowClippingPercent:    DefaultClippingPercent,
		HighlightClippingPercent: DefaultClippingPercent,
		MinTonalCoverage:         DefaultMinTonalCoverage,
	}
}

// Validate reports thresholds that cannot describe a meaningful check.
func (t Thresholds) Validate() error {
	if t.ExposureTarget < 0 || t.ExposureTarget > MaxLevel {
		return fmt.Errorf("exposure_target must be within [0, %d] (got %g)", MaxLevel, t.ExposureTarget)
	}
	if t.ExposureDeadband < 0 {
		return fmt.Errorf("exposure_deadband must be >= 0 (got %g)", t.ExposureDeadband)
	}
	for name, v := range map[string]float64{
		"shadow_clipping_percent":    t.ShadowClippingPercent,
		"highlight_clipping_percent": t.HighlightClippingPercent,
		"min_tonal_coverage":         t.MinTonalCoverage,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be within [0, 100] (got %g)", name, v)
		}
	}
	return nil
}
