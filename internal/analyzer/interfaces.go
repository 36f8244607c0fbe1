package analyzer

import "image"

// ImageAnalyzer defines the main interface for image analysis
type ImageAnalyzer interface {
	Analyze(img image.Image, options AnalysisOptions) (*Analysis, error)
}
