package histogram

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

// Stats summarizes the distribution of one histogram
type Stats struct {
	Mean   float64
	StdDev float64
	Median float64
	Min    int
	Max    int
}

// Summarize computes weighted statistics over the intensity levels of h.
// An empty histogram yields zero Stats with Min and Max set to -1.
func Summarize(h quality.Histogram) Stats {
	if h.Total() == 0 {
		return Stats{Min: -1, Max: -1}
	}

	levels := quality.LevelValues()
	weights := h.Counts()

	mean, std := stat.MeanStdDev(levels, weights)
	if math.IsNaN(std) {
		// A single pixel has no spread.
		std = 0
	}

	stats := Stats{
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, levels, weights),
		Min:    -1,
		Max:    -1,
	}
	for level, c := range h {
		if c == 0 {
			continue
		}
		if stats.Min < 0 {
			stats.Min = level
		}
		stats.Max = level
	}
	return stats
}
