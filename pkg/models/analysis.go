package models

import (
	"time"

	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

// AnalysisResult represents the complete result of analyzing one image
type AnalysisResult struct {
	ImageURL          string    `json:"image_url"`
	Timestamp         time.Time `json:"timestamp"`
	ProcessingTimeSec float64   `json:"processing_time_sec"`

	Image ImageMetadata `json:"image"`

	// Channel the quality report was estimated on
	AssessedChannel string         `json:"assessed_channel"`
	Quality         quality.Report `json:"quality"`

	Channels []ChannelSummary `json:"channels"`
}

// ChannelSummary describes the intensity distribution of one channel
type ChannelSummary struct {
	Channel  string   `json:"channel"`
	Mean     float64  `json:"mean"`
	StdDev   float64  `json:"std_dev"`
	Median   float64  `json:"median"`
	MinLevel int      `json:"min_level"`
	MaxLevel int      `json:"max_level"`
	Counts   []uint64 `json:"counts,omitempty"`
}

// ImageMetadata contains metadata about a fetched image
type ImageMetadata struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	TotalPixels   int64  `json:"total_pixels"`
	Format        string `json:"format"`
	ContentType   string `json:"content_type,omitempty"`
	ContentLength int64  `json:"content_length"`
}
