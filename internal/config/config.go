package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

// DefaultUserAgent is sent with image requests. Some image hosts reject
// requests that do not look like they come from a browser.
const DefaultUserAgent = "Mozilla/5.0 (compatible; tonal-inspector/1.0)"

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	MaxRequestBodySize int64
	MaxImageBytes      int64
	UserAgent          string
	AllowedHosts       []string

	// ThresholdsFile optionally points at a YAML file overriding Thresholds
	ThresholdsFile string
	Thresholds     quality.Thresholds

	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob storage credentials were supplied
func (c *Config) AzureEnabled() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 1024*1024),
		MaxImageBytes:      parseIntOrDefault("MAX_IMAGE_BYTES", 50*1024*1024),
		UserAgent:          getEnvOrDefault("USER_AGENT", DefaultUserAgent),
		AllowedHosts:       parseListOrDefault("ALLOWED_HOSTS", nil),
		ThresholdsFile:     strings.TrimSpace(os.Getenv("THRESHOLDS_FILE")),
		Thresholds:         quality.DefaultThresholds(),
		AzureAccountName:   strings.TrimSpace(os.Getenv("AZURE_STORAGE_ACCOUNT")),
		AzureAccountKey:    strings.TrimSpace(os.Getenv("AZURE_STORAGE_KEY")),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.MaxImageBytes <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_BYTES must be > 0 (got %d)", cfg.MaxImageBytes)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout)
	}
	if (cfg.AzureAccountName == "") != (cfg.AzureAccountKey == "") {
		return nil, fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together")
	}

	if cfg.ThresholdsFile != "" {
		thresholds, err := LoadThresholds(cfg.ThresholdsFile)
		if err != nil {
			return nil, err
		}
		cfg.Thresholds = thresholds
	}
	return cfg, nil
}

// LoadThresholds reads a YAML thresholds file. Keys missing from the file keep
// their default values; unknown keys are an error.
func LoadThresholds(path string) (quality.Thresholds, error) {
	thresholds := quality.DefaultThresholds()

	data, err := os.ReadFile(path)
	if err != nil {
		return thresholds, fmt.Errorf("read thresholds file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&thresholds); err != nil && !errors.Is(err, io.EOF) {
		return thresholds, fmt.Errorf("parse thresholds file %s: %w", path, err)
	}
	if err := thresholds.Validate(); err != nil {
		return thresholds, fmt.Errorf("thresholds file %s: %w", path, err)
	}
	return thresholds, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseListOrDefault splits a comma separated env value, dropping blanks
func parseListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
