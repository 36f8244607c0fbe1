package analyzer

import (
	"github.com/anime-shed/tonal-inspector-go/internal/histogram"
	"github.com/anime-shed/tonal-inspector-go/pkg/models"
)

// Analysis is the outcome of analyzing one image. Histograms is kept so the
// caller can render it without recomputing.
type Analysis struct {
	Result     models.AnalysisResult
	Histograms histogram.Set
}
