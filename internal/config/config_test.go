package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "REQUEST_TIMEOUT", "IMAGE_FETCH_TIMEOUT", "USER_AGENT",
		"THRESHOLDS_FILE", "AZURE_STORAGE_ACCOUNT", "AZURE_STORAGE_KEY", "ALLOWED_HOSTS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("Expected default address, got %s", cfg.ServerAddress())
	}
	if cfg.ImageFetchTimeout != 15*time.Second {
		t.Errorf("Expected 15s fetch timeout, got %s", cfg.ImageFetchTimeout)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %q", cfg.UserAgent)
	}
	if cfg.Thresholds != quality.DefaultThresholds() {
		t.Errorf("Expected default thresholds, got %+v", cfg.Thresholds)
	}
	if cfg.AzureEnabled() {
		t.Error("Expected azure to be disabled without credentials")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("IMAGE_FETCH_TIMEOUT", "5s")
	t.Setenv("USER_AGENT", "custom-agent/1.0")
	t.Setenv("ALLOWED_HOSTS", "example.com, upload.wikimedia.org ,")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "photos")
	t.Setenv("AZURE_STORAGE_KEY", "c2VjcmV0")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.HasSuffix(cfg.ServerAddress(), ":9090") {
		t.Errorf("Expected port 9090, got %s", cfg.ServerAddress())
	}
	if cfg.ImageFetchTimeout != 5*time.Second {
		t.Errorf("Expected 5s, got %s", cfg.ImageFetchTimeout)
	}
	if cfg.UserAgent != "custom-agent/1.0" {
		t.Errorf("Unexpected user agent %q", cfg.UserAgent)
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[1] != "upload.wikimedia.org" {
		t.Errorf("Unexpected allowed hosts %v", cfg.AllowedHosts)
	}
	if !cfg.AzureEnabled() {
		t.Error("Expected azure to be enabled")
	}
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "http"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"zero body size", map[string]string{"PORT": "8080", "MAX_REQUEST_BODY_SIZE": "0"}},
		{"half azure config", map[string]string{"PORT": "8080", "AZURE_STORAGE_ACCOUNT": "photos", "AZURE_STORAGE_KEY": ""}},
		{"missing thresholds file", map[string]string{"PORT": "8080", "THRESHOLDS_FILE": "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadFromEnv(); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := "exposure_deadband: 30\nmin_tonal_coverage: 50\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	thresholds, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if thresholds.ExposureDeadband != 30 {
		t.Errorf("Expected deadband 30, got %f", thresholds.ExposureDeadband)
	}
	if thresholds.MinTonalCoverage != 50 {
		t.Errorf("Expected coverage 50, got %f", thresholds.MinTonalCoverage)
	}
	if thresholds.ExposureTarget != quality.DefaultExposureTarget {
		t.Errorf("Expected untouched keys to keep defaults, got target %f", thresholds.ExposureTarget)
	}
}

func TestLoadThresholds_Invalid(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badYAML, []byte("exposure_deadband: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadThresholds(badYAML); err == nil {
		t.Error("Expected parse error")
	}

	outOfRange := filepath.Join(dir, "range.yaml")
	if err := os.WriteFile(outOfRange, []byte("shadow_clipping_percent: 150"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadThresholds(outOfRange); err == nil {
		t.Error("Expected validation error")
	}
}

func TestLoadThresholds_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	if err := os.WriteFile(path, []byte("exposure_deadband: 30\nmin_tonal_coverag: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadThresholds(path)
	if err == nil {
		t.Fatal("Expected error for misspelled key")
	}
	if !strings.Contains(err.Error(), "min_tonal_coverag") {
		t.Errorf("Expected error to name the unknown key, got %v", err)
	}
}

func TestLoadThresholds_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	thresholds, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if thresholds != quality.DefaultThresholds() {
		t.Errorf("Expected defaults, got %+v", thresholds)
	}
}
