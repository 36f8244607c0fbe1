package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/tonal-inspector-go/internal/analyzer"
	"github.com/anime-shed/tonal-inspector-go/internal/cli"
	"github.com/anime-shed/tonal-inspector-go/internal/config"
	"github.com/anime-shed/tonal-inspector-go/internal/factory"
	"github.com/anime-shed/tonal-inspector-go/internal/histogram"
	"github.com/anime-shed/tonal-inspector-go/internal/logger"
	"github.com/anime-shed/tonal-inspector-go/internal/observer"
	"github.com/anime-shed/tonal-inspector-go/internal/render"
	"github.com/anime-shed/tonal-inspector-go/internal/repository"
	"github.com/anime-shed/tonal-inspector-go/internal/service"
	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

// version is set via ldflags at build time
var version = "dev"

const sampleURL = "https://upload.wikimedia.org/wikipedia/commons/thumb/a/ac/Nissan_Skyline_R34_tuned.jpg/640px-Nissan_Skyline_R34_tuned.jpg"

var CLI struct {
	URL        string        `arg:"" name:"url" help:"Image URL to inspect (defaults to a sample photo)" optional:""`
	Plot       string        `help:"Write the histogram visualization to this PNG file" type:"path"`
	Channel    string        `help:"Channel the report is based on: gray, red, green or blue" default:"gray"`
	Thresholds string        `help:"YAML file overriding the quality thresholds" type:"existingfile"`
	JSON       bool          `help:"Print the full analysis as JSON"`
	Timeout    time.Duration `help:"Image fetch timeout" default:"30s"`
	UserAgent  string        `help:"User-Agent header sent with the image request" default:"${user_agent}"`
	MaxBytes   int64         `help:"Largest image body accepted, in bytes" default:"52428800"`
	Verbose    bool          `help:"Log pipeline events" short:"v"`
	Version    bool          `help:"Show version information"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("tonal-inspector"),
		kong.Description("Estimate the tonal quality of an image from its intensity histogram."),
		kong.Vars{"version": version, "user_agent": config.DefaultUserAgent},
		kong.UsageOnError(),
	)

	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	logger.UseTextFormatter()
	if CLI.Verbose {
		logger.SetLevel("debug")
	}

	if err := run(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func run() error {
	imageURL := strings.TrimSpace(CLI.URL)
	if imageURL == "" {
		imageURL = sampleURL
	}

	channel, err := histogram.ParseChannel(CLI.Channel)
	if err != nil {
		return err
	}

	thresholds := quality.DefaultThresholds()
	if CLI.Thresholds != "" {
		if thresholds, err = config.LoadThresholds(CLI.Thresholds); err != nil {
			return err
		}
	}

	cfg := &config.Config{
		ImageFetchTimeout: CLI.Timeout,
		MaxImageBytes:     CLI.MaxBytes,
		UserAgent:         CLI.UserAgent,
		Thresholds:        thresholds,
		AzureAccountName:  strings.TrimSpace(os.Getenv("AZURE_STORAGE_ACCOUNT")),
		AzureAccountKey:   strings.TrimSpace(os.Getenv("AZURE_STORAGE_KEY")),
	}
	fetchers, err := factory.NewStorageFactory(cfg).EnabledStorages()
	if err != nil {
		return err
	}

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	svc := service.NewImageAnalysisService(repository.NewImageRepository(nil, fetchers...), analyzer.NewImageAnalyzer(), events)

	ctx, cancel := context.WithTimeout(context.Background(), CLI.Timeout)
	defer cancel()

	logger.WithField("url", imageURL).Info("Fetching image")
	options := analyzer.DefaultOptions().WithChannel(channel).WithThresholds(thresholds)
	inspection, err := svc.Inspect(ctx, imageURL, options)
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{"url": imageURL}).Error("Failed to load image")
		return fmt.Errorf("could not analyze %s", imageURL)
	}

	if CLI.Plot != "" {
		canvas, err := render.Visualize(inspection.Image, inspection.Histograms)
		if err != nil {
			return err
		}
		if err := imaging.Save(canvas, CLI.Plot); err != nil {
			return fmt.Errorf("save visualization: %w", err)
		}
		logger.WithField("path", CLI.Plot).Info("Histogram visualization saved")
	}

	if CLI.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(inspection.Result)
	}

	fmt.Println(cli.RenderReport(&inspection.Result))
	if CLI.Plot != "" {
		cli.PrintSuccess("Histogram visualization saved to " + CLI.Plot)
	}
	return nil
}
