package models

import "encoding/json"

// AnalysisRequest represents a request for image analysis.
// Thresholds is kept raw so that fields it omits fall back to the server's
// configured values instead of zero.
type AnalysisRequest struct {
	URL               string          `json:"url" binding:"required,url"`
	Channel           string          `json:"channel,omitempty"`
	IncludeHistograms bool            `json:"include_histograms,omitempty"`
	Thresholds        json.RawMessage `json:"thresholds,omitempty"`
}

// VisualizationRequest represents a request for a histogram visualization
type VisualizationRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatsResponse is the snapshot served by the stats endpoint
type StatsResponse struct {
	TotalAnalyses        int64   `json:"total_analyses"`
	SuccessfulAnalyses   int64   `json:"successful_analyses"`
	FailedAnalyses       int64   `json:"failed_analyses"`
	FetchFailures        int64   `json:"fetch_failures"`
	ReportsWithIssues    int64   `json:"reports_with_issues"`
	AvgProcessingTimeSec float64 `json:"avg_processing_time_sec"`
}
