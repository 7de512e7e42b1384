package feed

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nugetbridge/pkg/cache"
	"github.com/matzehuels/nugetbridge/pkg/descriptor"
	"github.com/matzehuels/nugetbridge/pkg/errors"
	"github.com/matzehuels/nugetbridge/pkg/httputil"
	"github.com/matzehuels/nugetbridge/pkg/observability"
)

// DefaultURL is the public nuget.org flat container.
const DefaultURL = "https://api.nuget.org/v3-flatcontainer"

const (
	httpTimeout       = 2 * time.Minute
	defaultAttempts   = 3
	defaultRetryDelay = time.Second
	userAgent         = "nugetbridge"
)

// Options configures a [Client]. Zero values select defaults.
type Options struct {
	// BaseURL of the flat container. nuget:// is accepted as an alias for
	// https://. Defaults to DefaultURL.
	BaseURL string

	// HTTPClient defaults to a client with a two minute timeout.
	HTTPClient *http.Client

	// Cache stores version indexes; nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration

	// Headers are added to every request, e.g. an API key.
	Headers map[string]string

	Attempts   int
	RetryDelay time.Duration

	Logger *log.Logger
}

// Client talks to one flat-container feed. It is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    cache.Cache
	keys     cache.Keyer
	ttl      time.Duration
	headers  map[string]string
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// New creates a client. It fails with INVALID_INPUT when the base URL is
// not an http(s) URL after nuget:// rewriting.
func New(opts Options) (*Client, error) {
	base := NormalizeURL(opts.BaseURL)
	if base == "" {
		base = DefaultURL
	}
	if err := errors.ValidateURL(base); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:  base,
		http:     opts.HTTPClient,
		cache:    opts.Cache,
		keys:     cache.NewKeyer(base),
		ttl:      opts.CacheTTL,
		headers:  opts.Headers,
		attempts: opts.Attempts,
		delay:    opts.RetryDelay,
		logger:   opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: httpTimeout}
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.attempts <= 0 {
		c.attempts = defaultAttempts
	}
	if c.delay <= 0 {
		c.delay = defaultRetryDelay
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c, nil
}

// NormalizeURL rewrites nuget:// to https:// and drops trailing slashes.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(s, "nuget://"); ok {
		s = "https://" + rest
	}
	return strings.TrimRight(s, "/")
}

// BaseURL returns the normalized feed URL.
func (c *Client) BaseURL() string { return c.baseURL }

// URL returns the absolute URL of a resource key.
func (c *Client) URL(key string) string {
	return c.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Get downloads key into destination, overwriting it.
func (c *Client) Get(ctx context.Context, key, destination string) error {
	_, err := c.download(ctx, key, destination, time.Time{})
	return err
}

// GetIfNewer downloads key only if the feed reports a change after since,
// using If-Modified-Since. It returns false on 304 Not Modified.
func (c *Client) GetIfNewer(ctx context.Context, key, destination string, since time.Time) (bool, error) {
	return c.download(ctx, key, destination, since)
}

func (c *Client) download(ctx context.Context, key, destination string, since time.Time) (bool, error) {
	var written bool
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		headers := map[string]string{}
		if !since.IsZero() {
			headers["If-Modified-Since"] = since.UTC().Format(http.TimeFormat)
		}
		resp, err := c.do(ctx, http.MethodGet, key, headers)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotModified {
			written = false
			return nil
		}

		f, err := os.Create(destination)
		if err != nil {
			return errors.Wrap(errors.ErrCodeTransfer, err, "create %s", destination)
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			f.Close()
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", key))
		}
		if err := f.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeTransfer, err, "write %s", destination)
		}
		written = true
		return nil
	})
	return written, err
}

// ResourceExists reports whether key exists on the feed.
func (c *Client) ResourceExists(ctx context.Context, key string) (bool, error) {
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		resp, err := c.do(ctx, http.MethodHead, key, nil)
		if err != nil {
			return err
		}
		resp.Body.Close()
		return nil
	})
	if errors.Is(err, errors.ErrCodeResourceNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ContentMD5 returns the hex MD5 checksum the feed advertises for key in
// its Content-MD5 header. Base64 values (the standard header encoding)
// are converted to hex; other values are returned as sent.
func (c *Client) ContentMD5(ctx context.Context, key string) (string, error) {
	var header string
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		resp, err := c.do(ctx, http.MethodHead, key, nil)
		if err != nil {
			return err
		}
		resp.Body.Close()
		header = strings.TrimSpace(resp.Header.Get("Content-MD5"))
		return nil
	})
	if err != nil {
		return "", err
	}
	if header == "" {
		return "", errors.New(errors.ErrCodeResourceNotFound, "feed sends no Content-MD5 for %s", key)
	}
	if sum, err := base64.StdEncoding.DecodeString(header); err == nil && len(sum) == 16 {
		return hex.EncodeToString(sum), nil
	}
	return header, nil
}

// Versions returns the version index of a package, oldest first. The
// index is served from the cache unless refresh is set.
func (c *Client) Versions(ctx context.Context, id string, refresh bool) (descriptor.Index, error) {
	id = strings.ToLower(id)
	cacheKey := c.keys.IndexKey(id)

	if !refresh {
		if data, hit, err := c.cache.Get(ctx, cacheKey); err != nil {
			c.logger.Warn("version cache read failed", "package", id, "error", err)
		} else if hit {
			return descriptor.ReadIndex(bytes.NewReader(data))
		}
	}

	var data []byte
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		resp, err := c.do(ctx, http.MethodGet, id+"/index.json", nil)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read index of %s", id))
		}
		return nil
	})
	if err != nil {
		return descriptor.Index{}, err
	}

	idx, err := descriptor.ReadIndex(bytes.NewReader(data))
	if err != nil {
		return descriptor.Index{}, err
	}
	if err := c.cache.Set(ctx, cacheKey, data, c.ttl); err != nil {
		c.logger.Warn("version cache write failed", "package", id, "error", err)
	}
	return idx, nil
}

// do performs one request. The caller must close the body of a non-nil
// response.
func (c *Client) do(ctx context.Context, method, key string, headers map[string]string) (*http.Response, error) {
	url := c.URL(key)
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", key)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, url))
	}
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))
	c.logger.Debug("feed request", "method", method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	if err := checkStatus(resp, key); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func checkStatus(resp *http.Response, key string) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK, code == http.StatusNotModified:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeResourceNotFound, "%s not found on feed", key)
	case code == http.StatusTooManyRequests, code >= 500:
		return httputil.RetryAfter(errors.New(errors.ErrCodeNetwork, "%s: status %d", key, code),
			httputil.ParseRetryAfter(resp.Header))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", key, code)
	}
}

// String describes the client for logs.
func (c *Client) String() string {
	return fmt.Sprintf("feed(%s)", c.baseURL)
}
