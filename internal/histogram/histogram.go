package histogram

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

// Channel selects which intensity a histogram counts
type Channel string

const (
	Red   Channel = "red"
	Green Channel = "green"
	Blue  Channel = "blue"
	Gray  Channel = "gray"
)

// Channels lists every supported channel, gray last.
var Channels = []Channel{Red, Green, Blue, Gray}

// ParseChannel converts a user supplied name into a Channel. Empty selects Gray.
func ParseChannel(name string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gray", "grey", "luma":
		return Gray, nil
	case "red", "r":
		return Red, nil
	case "green", "g":
		return Green, nil
	case "blue", "b":
		return Blue, nil
	default:
		return "", fmt.Errorf("unknown channel %q (want red, green, blue or gray)", name)
	}
}

// Set holds the histograms of every channel of one image
type Set struct {
	Red    quality.Histogram
	Green  quality.Histogram
	Blue   quality.Histogram
	Gray   quality.Histogram
	Width  int
	Height int
}

// Pixels returns the number of pixels counted in each histogram.
func (s *Set) Pixels() int64 {
	return int64(s.Width) * int64(s.Height)
}

// Get returns the histogram of one channel. ok is false for anything but
// the four Channel constants; aliases must go through ParseChannel first.
func (s *Set) Get(ch Channel) (h quality.Histogram, ok bool) {
	switch ch {
	case Red:
		return s.Red, true
	case Green:
		return s.Green, true
	case Blue:
		return s.Blue, true
	case Gray:
		return s.Gray, true
	default:
		return quality.Histogram{}, false
	}
}

// luma is the ITU-R BT.601 weighting (0.299, 0.587, 0.114) in 16.16 fixed point, rounded.
func luma(r, g, b uint8) uint8 {
	return uint8((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16)
}

// ComputeAll counts every channel in a single pass over the image.
// Alpha is ignored: the image is treated as a 3-channel colour buffer.
func ComputeAll(img image.Image) Set {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()

	set := Set{Width: bounds.Dx(), Height: bounds.Dy()}
	for y := 0; y < set.Height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+set.Width*4]
		for i := 0; i < len(row); i += 4 {
			r, g, b := row[i], row[i+1], row[i+2]
			set.Red[r]++
			set.Green[g]++
			set.Blue[b]++
			set.Gray[luma(r, g, b)]++
		}
	}
	return set
}

// Compute returns the histogram of a single channel, accepting the same
// names as ParseChannel.
func Compute(img image.Image, name string) (quality.Histogram, error) {
	ch, err := ParseChannel(name)
	if err != nil {
		return quality.Histogram{}, err
	}
	set := ComputeAll(img)
	h, _ := set.Get(ch)
	return h, nil
}
