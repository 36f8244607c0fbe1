package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anime-shed/tonal-inspector-go/pkg/models"
	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#5F87D7")
	successColor = lipgloss.Color("#00AA00")
	warningColor = lipgloss.Color("#FFA500")
	errorColor   = lipgloss.Color("#D70000")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginTop(1)

	GoodStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 2)
)

// RenderReport formats an analysis result for the terminal: the overall
// rating, one line per finding and the numeric details.
func RenderReport(result *models.AnalysisResult) string {
	var b strings.Builder
	report := result.Quality

	b.WriteString(TitleStyle.Render("Image quality report"))
	b.WriteString("\n")
	if result.ImageURL != "" {
		b.WriteString(KeyStyle.Render(result.ImageURL))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(KeyStyle.Render("Rating: "))
	if report.HasIssues() {
		b.WriteString(ErrorStyle.Render(ratingText(report.Rating)))
	} else {
		b.WriteString(GoodStyle.Render(ratingText(report.Rating)))
	}
	b.WriteString("\n")

	if report.HasIssues() {
		b.WriteString(HeaderStyle.Render("Findings:"))
		b.WriteString("\n")
		for _, f := range report.Findings {
			style := WarningStyle
			if f.Severity == quality.SeverityError {
				style = ErrorStyle
			}
			b.WriteString("  " + style.Render("- "+f.Message))
			b.WriteString("\n")
		}
	}

	b.WriteString(HeaderStyle.Render("Details:"))
	b.WriteString("\n")
	writeValue(&b, "Image", fmt.Sprintf("%dx%d %s", result.Image.Width, result.Image.Height, result.Image.Format))
	writeValue(&b, "Channel", result.AssessedChannel)
	writeValue(&b, "Average intensity", fmt.Sprintf("%.1f", report.AverageIntensity))
	writeValue(&b, "Tonal coverage", fmt.Sprintf("%.1f%%", report.TonalCoverage))
	writeValue(&b, "Clipping (shadows/highlights)", fmt.Sprintf("%.2f%% / %.2f%%", report.PercentBlack, report.PercentWhite))

	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func ratingText(rating string) string {
	switch rating {
	case quality.RatingGood:
		return "Very good tonal quality and exposure."
	case quality.RatingIssuesDetected:
		return "Tonal or exposure issues detected."
	default:
		return rating
	}
}

func writeValue(b *strings.Builder, key, value string) {
	b.WriteString("  " + KeyStyle.Render(fmt.Sprintf("%-30s", key+":")))
	b.WriteString(ValueStyle.Render(value))
	b.WriteString("\n")
}

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("tonal-inspector"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", GoodStyle.Render("✓"), message)
}
