package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ResponseError reports an upstream response that was not a usable document:
// a non-2xx status or an HTML error page.
type ResponseError struct {
	URL         string
	StatusCode  int
	ContentType string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("request to %s failed: status=%d content-type=%q", e.URL, e.StatusCode, e.ContentType)
}

// Client fetches upstream documents through a Limiter and a disk Cache.
type Client struct {
	base      *url.URL
	http      Doer
	pool      Limiter
	cache     *Cache
	logger    *zap.Logger
	primary   string
	secondary string
	group     singleflight.Group
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP transport.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// NewClient creates a client for cfg.BaseURL.
func NewClient(cfg Config, pool Limiter, cache *Cache, logger *zap.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url %q: %w", cfg.BaseURL, err)
	}
	if pool == nil {
		pool = NewPool(cfg.Concurrency, cfg.RequestsPerSecond)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		base:      base,
		http:      newHTTPClient(cfg.TimeoutSeconds),
		pool:      pool,
		cache:     cache,
		logger:    logger,
		primary:   cfg.PrimaryRegion,
		secondary: cfg.SecondaryRegion,
	}
	if c.primary == "" {
		c.primary = "jp"
	}
	if c.secondary == "" {
		c.secondary = "en"
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newHTTPClient(timeoutSeconds int) *http.Client {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	timeout := time.Duration(timeoutSeconds) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Transport: transport}
}

// Fetch returns the document at pathname, honouring policy and the regional fallback.
func (c *Client) Fetch(ctx context.Context, pathname string, policy Policy) ([]byte, error) {
	data, err := c.fetch(ctx, pathname, policy)
	if err == nil {
		return data, nil
	}

	var respErr *ResponseError
	fallback, ok := c.fallbackPath(pathname)
	if !ok || !errors.As(err, &respErr) {
		return nil, err
	}

	c.logger.Debug("Falling back to secondary region",
		zap.String("pathname", pathname),
		zap.String("fallback", fallback),
		zap.Int("status", respErr.StatusCode),
	)

	data, err = c.fetch(ctx, fallback, policy)
	if err != nil {
		return nil, fmt.Errorf("fallback for %s failed: %w", pathname, err)
	}

	// Alias the fallback bytes under the requested key so cache-reading
	// policies stop hitting the primary region.
	if policy.readsCache() {
		if err := c.cache.Write(pathname, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// FetchJSON fetches pathname and decodes it into out.
func (c *Client) FetchJSON(ctx context.Context, pathname string, policy Policy, out any) error {
	data, err := c.Fetch(ctx, pathname, policy)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", pathname, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, pathname string, policy Policy) ([]byte, error) {
	if policy.readsCache() {
		cached, ok, err := c.cache.Read(pathname)
		if err != nil {
			return nil, err
		}
		if ok && policy.accepts(cached) {
			return cached, nil
		}
	}

	// The shared download outlives any single caller; each caller only
	// stops waiting on its own cancellation.
	ch := c.group.DoChan(pathname, func() (any, error) {
		return c.download(context.WithoutCancel(ctx), pathname)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) download(ctx context.Context, pathname string) ([]byte, error) {
	target := c.base.ResolveReference(&url.URL{Path: pathname}).String()

	var body []byte
	err := c.pool.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("failed to build request for %s: %w", target, err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("request to %s failed: %w", target, err)
		}
		defer resp.Body.Close()

		contentType := resp.Header.Get("Content-Type")
		if resp.StatusCode < 200 || resp.StatusCode > 299 || isHTML(contentType) {
			_, _ = io.Copy(io.Discard, resp.Body)
			return &ResponseError{URL: target, StatusCode: resp.StatusCode, ContentType: contentType}
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response from %s: %w", target, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Write(pathname, body); err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched", zap.String("pathname", pathname), zap.Int("bytes", len(body)))
	return body, nil
}

func (c *Client) fallbackPath(pathname string) (string, bool) {
	prefix := "/assets/" + c.primary + "/"
	if !strings.HasPrefix(pathname, prefix) {
		return "", false
	}
	return "/assets/" + c.secondary + "/" + strings.TrimPrefix(pathname, prefix), true
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(contentType), "text/html")
	}
	return mediaType == "text/html"
}
