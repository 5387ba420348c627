package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flanksource/informe/api"
)

// DefaultMaxBytes caps a single photo download.
const DefaultMaxBytes = 32 << 20

// Fetcher resolves http(s) URLs, file:// URLs and local paths.
type Fetcher struct {
	Client *http.Client
	// BaseDir anchors relative paths, usually the report's directory.
	BaseDir   string
	MaxBytes  int64
	UserAgent string
}

func NewFetcher(baseDir string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: timeout},
		BaseDir:   baseDir,
		MaxBytes:  DefaultMaxBytes,
		UserAgent: "informe",
	}
}

func (f *Fetcher) Resolve(ctx context.Context, ref api.ImageRef) ([]byte, error) {
	s := strings.TrimSpace(ref.String())
	if s == "" {
		return nil, fmt.Errorf("empty image reference")
	}
	if isURL(s) {
		return f.download(ctx, s)
	}
	if strings.HasPrefix(s, "file://") {
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid file url %q: %w", s, err)
		}
		s = u.Path
	}
	return f.readFile(s)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (f *Fetcher) limit() int64 {
	if f.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return f.MaxBytes
}

func (f *Fetcher) download(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}
	return readLimited(resp.Body, f.limit())
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	if !filepath.IsAbs(path) && f.BaseDir != "" {
		path = filepath.Join(f.BaseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("image file not found: %w", err)
	}
	defer file.Close()
	return readLimited(file, f.limit())
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image exceeds %d bytes", limit)
	}
	return data, nil
}
