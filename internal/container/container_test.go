package container

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anime-shed/tonal-inspector-go/internal/config"
	"github.com/anime-shed/tonal-inspector-go/pkg/quality"
)

func TestNewContainer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		RequestTimeout:     time.Second,
		ImageFetchTimeout:  time.Second,
		MaxRequestBodySize: 1024,
		MaxImageBytes:      1024,
		Thresholds:         quality.DefaultThresholds(),
	}

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.Service() == nil || c.Metrics() == nil || c.Config() != cfg {
		t.Fatal("Expected container to expose its components")
	}

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", w.Code)
	}
}

func TestNewContainer_BadAzureKey(t *testing.T) {
	cfg := &config.Config{AzureAccountName: "photos", AzureAccountKey: "not base64 !!"}
	if _, err := NewContainer(cfg); err == nil {
		t.Error("Expected error for malformed azure key")
	}
}
