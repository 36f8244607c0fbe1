// Package render draws the histogram report image: a preview of the analyzed
// picture above a grayscale histogram and an overlaid R/G/B histogram.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
	"github.com/anime-shed/tonal-inspector-go/internal/histogram"
	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

const (
	ChartWidth    = 600
	ChartHeight   = 360
	PreviewHeight = 320
	titleHeight   = 24

	xAxisName = "Intensity (0-255)"
	yAxisName = "Pixel count"
)

// CanvasSize is the size of every image returned by Visualize.
var CanvasSize = image.Pt(2*ChartWidth, 2*titleHeight+PreviewHeight+ChartHeight)

var channelStyles = []struct {
	channel histogram.Channel
	name    string
	color   drawing.Color
}{
	{histogram.Blue, "Blue", chart.ColorBlue},
	{histogram.Green, "Green", chart.ColorGreen},
	{histogram.Red, "Red", chart.ColorRed},
}

// Visualize renders img and its histograms into a single canvas.
func Visualize(img image.Image, set histogram.Set) (*image.RGBA, error) {
	if img == nil {
		return nil, apperrors.NewInvalidInputError("no image to visualize", nil)
	}

	canvas := image.NewRGBA(image.Rectangle{Max: CanvasSize})
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	preview := imaging.Fit(img, CanvasSize.X-20, PreviewHeight-10, imaging.Lanczos)
	pb := preview.Bounds()
	origin := image.Pt((CanvasSize.X-pb.Dx())/2, titleHeight+(PreviewHeight-pb.Dy())/2)
	draw.Draw(canvas, pb.Sub(pb.Min).Add(origin), preview, pb.Min, draw.Over)
	drawTitle(canvas, fmt.Sprintf("Image (%dx%d)", set.Width, set.Height), CanvasSize.X/2, titleHeight-7)

	chartTop := 2*titleHeight + PreviewHeight

	gray := set.Gray
	grayChart, err := renderChart([]chart.Series{
		histogramSeries("Gray", gray, chart.ColorAlternateGray),
	}, maxCount(gray), false)
	if err != nil {
		return nil, err
	}
	draw.Draw(canvas, image.Rect(0, chartTop, ChartWidth, chartTop+ChartHeight), grayChart, grayChart.Bounds().Min, draw.Src)
	drawTitle(canvas, "Grayscale histogram", ChartWidth/2, chartTop-7)

	series := make([]chart.Series, 0, len(channelStyles))
	var peak uint64
	for _, cs := range channelStyles {
		h, _ := set.Get(cs.channel)
		series = append(series, histogramSeries(cs.name, h, cs.color))
		if m := maxCount(h); m > peak {
			peak = m
		}
	}
	colorChart, err := renderChart(series, peak, true)
	if err != nil {
		return nil, err
	}
	draw.Draw(canvas, image.Rect(ChartWidth, chartTop, 2*ChartWidth, chartTop+ChartHeight), colorChart, colorChart.Bounds().Min, draw.Src)
	drawTitle(canvas, "Color channel histograms (B, G, R)", ChartWidth+ChartWidth/2, chartTop-7)

	return canvas, nil
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return apperrors.NewProcessingError("failed to encode visualization", err)
	}
	return nil
}

func histogramSeries(name string, h quality.Histogram, col drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: quality.LevelValues(),
		YValues: h.Counts(),
		Style: chart.Style{
			StrokeColor: col,
			StrokeWidth: 1.5,
			FillColor:   col.WithAlpha(48),
		},
	}
}

func renderChart(series []chart.Series, peak uint64, legend bool) (image.Image, error) {
	// go-chart refuses a zero-height range
	yMax := float64(peak) * 1.05
	if yMax < 1 {
		yMax = 1
	}

	graph := chart.Chart{
		Width:      ChartWidth,
		Height:     ChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 10}},
		XAxis: chart.XAxis{
			Name:  xAxisName,
			Range: &chart.ContinuousRange{Min: 0, Max: quality.MaxLevel},
		},
		YAxis: chart.YAxis{
			Name:           yAxisName,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: chart.IntValueFormatter,
		},
		Series: series,
	}
	if legend {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, apperrors.NewProcessingError("failed to render histogram chart", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, apperrors.NewProcessingError("failed to decode histogram chart", err)
	}
	return img, nil
}

func maxCount(h quality.Histogram) uint64 {
	var m uint64
	for _, c := range h {
		if c > m {
			m = c
		}
	}
	return m
}

// drawTitle draws text horizontally centred on centerX with its baseline at y.
func drawTitle(dst draw.Image, text string, centerX, y int) {
	dr := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{R: 40, G: 40, B: 40, A: 255}),
		Face: basicfont.Face7x13,
	}
	width := dr.MeasureString(text).Ceil()
	dr.Dot = fixed.Point26_6{X: fixed.I(centerX - width/2), Y: fixed.I(y)}
	dr.DrawString(text)
}
