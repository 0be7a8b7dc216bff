// Package assets fetches publisher logos and icons for the renderer. A
// failed fetch degrades to a placeholder image; it never aborts a render
// cycle.
package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrAssetUnavailable marks an image that could not be fetched: transport
// failure, timeout, or a non-200 response.
var ErrAssetUnavailable = errors.New("asset unavailable")

const (
	defaultTimeout = 10 * time.Second
	maxAssetBytes  = 10 << 20
)

// placeholderPNG is a 1x1 transparent image served when a logo fetch fails.
var placeholderPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

// Resolver fetches image bytes for logo/icon paths.
type Resolver struct {
	baseURL string
	client  *http.Client
}

// NewResolver creates a resolver. Relative paths are joined to baseURL;
// absolute URLs are fetched as given.
func NewResolver(baseURL string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Resolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch returns the image bytes and content type for a logo path or URL.
func (r *Resolver) Fetch(ctx context.Context, pathOrURL string) ([]byte, string, error) {
	if pathOrURL == "" {
		return nil, "", fmt.Errorf("%w: empty asset path", ErrAssetUnavailable)
	}

	url := pathOrURL
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = r.baseURL + pathOrURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrAssetUnavailable, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrAssetUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: status %d for %s", ErrAssetUnavailable, resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrAssetUnavailable, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// FetchOrPlaceholder never fails: any fetch error is logged and the
// transparent placeholder is returned instead.
func (r *Resolver) FetchOrPlaceholder(ctx context.Context, pathOrURL string) ([]byte, string) {
	data, contentType, err := r.Fetch(ctx, pathOrURL)
	if err != nil {
		slog.Warn("asset fetch failed, serving placeholder", "path", pathOrURL, "error", err)
		return placeholderPNG, "image/png"
	}
	return data, contentType
}
