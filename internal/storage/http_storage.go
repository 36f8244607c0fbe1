package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/anime-shed/tonal-inspector-go/internal/errors"
)

// HTTPOptions configures an HTTPImageFetcher
type HTTPOptions struct {
	UserAgent string
	MaxBytes  int64
	Timeout   time.Duration
}

// HTTPImageFetcher fetches images over plain HTTP(S) with a single request
type HTTPImageFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewHTTPImageFetcher creates an HTTP image fetcher
func NewHTTPImageFetcher(opts HTTPOptions) ImageFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 50 * 1024 * 1024
	}

	transport := &http.Transport{
		Proxy:                  http.ProxyFromEnvironment,
		MaxIdleConns:           10,
		MaxIdleConnsPerHost:    2,
		IdleConnTimeout:        30 * time.Second,
		TLSHandshakeTimeout:    10 * time.Second,
		ResponseHeaderTimeout:  10 * time.Second,
		ExpectContinueTimeout:  1 * time.Second,
		MaxResponseHeaderBytes: 64 * 1024,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
	}
}

func (h *HTTPImageFetcher) Name() string {
	return "http"
}

func (h *HTTPImageFetcher) Supports(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (*FetchedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid URL", err)
	}

	req.Header.Set("Accept", "image/avif, image/webp, image/png, image/jpeg, image/*, */*;q=0.8")
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.NewTimeoutError("image fetch timed out", err)
		}
		return nil, apperrors.NewNetworkError("failed to fetch image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("unexpected status code %d", resp.StatusCode), nil).
			WithDetails(resp.Status)
	}

	data, err := readLimited(resp.Body, h.maxBytes)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.NewTimeoutError("image fetch timed out", err)
		}
		return nil, err
	}

	return decodeImage(data, resp.Header.Get("Content-Type"))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
