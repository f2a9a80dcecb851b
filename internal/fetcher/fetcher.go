// Package fetcher implements the site-scoped HTTP client.
package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/wheat/techdigest/internal/ratelimit"
)

// Config controls client behavior.
type Config struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	InsecureTLS bool
}

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s failed, status: %d", e.Path, e.StatusCode)
}

// Client issues GET requests against a fixed base host. Every request waits
// on the shared limiter and carries the configured user-agent.
type Client struct {
	base    *url.URL
	cfg     Config
	http    *http.Client
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// New builds a Client.
func New(cfg Config, limiter *ratelimit.Limiter, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %s: %w", cfg.BaseURL, err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base: base,
		cfg:  cfg,
		http: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(cfg.InsecureTLS),
		},
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Get fetches path relative to the base host and returns the body.
func (c *Client) Get(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body %s: %w", path, err)
	}
	return string(body), nil
}

// Download streams the response for url into outputPath, creating parent
// directories first.
func (c *Client) Download(ctx context.Context, url string, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return fmt.Errorf("create dir for %s: %w", outputPath, err)
	}

	resp, err := c.do(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %s: %w", path, err)
	}
	target := c.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	c.logger.Debug("fetching", zap.String("url", target.String()))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close() //nolint:errcheck
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func newTransport(insecure bool) *http.Transport {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 15 * time.Second,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	}
	if insecure {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return t
}
