package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), G: 128, B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestHTTPImageFetcher_FetchImage(t *testing.T) {
	pngData := encodePNG(t, 4, 3)

	tests := []struct {
		name      string
		status    int
		body      []byte
		maxBytes  int64
		wantType  apperrors.ErrorType
		wantError bool
	}{
		{
			name:   "Valid PNG",
			status: http.StatusOK,
			body:   pngData,
		},
		{
			name:      "Not found",
			status:    http.StatusNotFound,
			body:      []byte("missing"),
			wantError: true,
			wantType:  apperrors.ErrorTypeNetwork,
		},
		{
			name:      "Server error is not retried",
			status:    http.StatusServiceUnavailable,
			wantError: true,
			wantType:  apperrors.ErrorTypeNetwork,
		},
		{
			name:      "Garbage body",
			status:    http.StatusOK,
			body:      []byte("definitely not an image"),
			wantError: true,
			wantType:  apperrors.ErrorTypeDecode,
		},
		{
			name:      "Empty body",
			status:    http.StatusOK,
			wantError: true,
			wantType:  apperrors.ErrorTypeDecode,
		},
		{
			name:      "Body larger than limit",
			status:    http.StatusOK,
			body:      pngData,
			maxBytes:  16,
			wantError: true,
			wantType:  apperrors.ErrorTypeDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				w.Header().Set("Content-Type", "image/png")
				w.WriteHeader(tt.status)
				_, _ = w.Write(tt.body)
			}))
			defer server.Close()

			fetcher := NewHTTPImageFetcher(HTTPOptions{MaxBytes: tt.maxBytes, Timeout: 5 * time.Second})
			result, err := fetcher.FetchImage(context.Background(), server.URL+"/image.png")

			if requests != 1 {
				t.Errorf("Expected exactly 1 request, got %d", requests)
			}

			if tt.wantError {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				if !apperrors.IsType(err, tt.wantType) {
					t.Errorf("Expected %s error, got %v", tt.wantType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			meta := result.Metadata
			if meta.Width != 4 || meta.Height != 3 || meta.TotalPixels != 12 {
				t.Errorf("Unexpected dimensions %+v", meta)
			}
			if meta.Format != "png" {
				t.Errorf("Expected png format, got %q", meta.Format)
			}
			if meta.ContentType != "image/png" {
				t.Errorf("Expected content type image/png, got %q", meta.ContentType)
			}
			if meta.ContentLength != int64(len(pngData)) {
				t.Errorf("Expected content length %d, got %d", len(pngData), meta.ContentLength)
			}
		})
	}
}

func TestHTTPImageFetcher_SendsUserAgent(t *testing.T) {
	var gotAgent, gotAccept string
	pngData := encodePNG(t, 1, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write(pngData)
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(HTTPOptions{UserAgent: "tonal-test/2.0"})
	if _, err := fetcher.FetchImage(context.Background(), server.URL); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotAgent != "tonal-test/2.0" {
		t.Errorf("Expected custom user agent, got %q", gotAgent)
	}
	if gotAccept == "" {
		t.Error("Expected an Accept header")
	}
}

func TestHTTPImageFetcher_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	fetcher := NewHTTPImageFetcher(HTTPOptions{})
	_, err := fetcher.FetchImage(ctx, server.URL)
	if !apperrors.IsType(err, apperrors.ErrorTypeTimeout) {
		t.Errorf("Expected timeout error, got %v", err)
	}
}

func TestHTTPImageFetcher_Supports(t *testing.T) {
	fetcher := NewHTTPImageFetcher(HTTPOptions{})

	for raw, want := range map[string]bool{
		"http://example.com/a.png":  true,
		"https://example.com/a.png": true,
		"ftp://example.com/a.png":   false,
		"file:///tmp/a.png":         false,
	} {
		u, _ := url.Parse(raw)
		if got := fetcher.Supports(u); got != want {
			t.Errorf("Supports(%s) = %v, want %v", raw, got, want)
		}
	}
}
