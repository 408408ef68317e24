package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"github.com/cametumbling/discovery-pipeline/internal/discovery"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 15 * time.Second
	// DefaultMaxBodySize is the default maximum response body size (2MB)
	DefaultMaxBodySize = 2 * 1024 * 1024
	// DefaultUserAgent is the default User-Agent header
	DefaultUserAgent = "Mozilla/5.0 (compatible; HealthTechDiscovery/1.0)"

	robotsCacheSize = 256
	robotsCacheTTL  = time.Hour
)

// ErrDisallowedByRobots is returned when robots.txt forbids the requested path.
var ErrDisallowedByRobots = errors.New("disallowed by robots.txt")

// Client is an HTTP client with timeout, rate limiting, and body size limits.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	http        *resty.Client
	userAgent   string
	maxBodySize int64
	limiter     *rate.Limiter
	robots      *expirable.LRU[string, *robotstxt.RobotsData]
}

// Config contains configuration options for the HTTP client.
type Config struct {
	// Timeout is the total request timeout (default: 15s)
	Timeout time.Duration
	// UserAgent is the User-Agent header to send
	UserAgent string
	// MaxBodySize is the maximum response body size in bytes (default: 2MB)
	MaxBodySize int64
	// RateLimit is the maximum number of requests per second (0 = no limit)
	RateLimit float64
	// RespectRobots makes Fetch consult the host's robots.txt first
	RespectRobots bool
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}

	httpClient := resty.New()
	httpClient.SetTimeout(cfg.Timeout)
	httpClient.SetHeader("User-Agent", cfg.UserAgent)

	c := &Client{
		http:        httpClient,
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
	}

	// burst of 1 keeps requests evenly spaced
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return c.limiter.Wait(req.Context())
		})
	}

	if cfg.RespectRobots {
		c.robots = expirable.NewLRU[string, *robotstxt.RobotsData](robotsCacheSize, nil, robotsCacheTTL)
	}

	return c
}

// Fetch retrieves the content from the given URL.
// Returns the fetch result (with final URL and content-type) and any error encountered.
// Applies rate limiting, sets User-Agent, and enforces body size limits.
// Respects context cancellation.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*discovery.FetchResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.robots != nil {
		allowed, err := c.allowedByRobots(ctx, u)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowedByRobots, rawURL)
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &discovery.HTTPError{
			StatusCode: resp.StatusCode(),
			URL:        rawURL,
		}
	}

	data, err := io.ReadAll(io.LimitReader(body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	finalURL := rawURL
	if resp.RawResponse != nil && resp.RawResponse.Request != nil {
		finalURL = resp.RawResponse.Request.URL.String()
	}

	return &discovery.FetchResult{
		Body:        data,
		FinalURL:    finalURL,
		ContentType: resp.Header().Get("Content-Type"),
		StatusCode:  resp.StatusCode(),
	}, nil
}

// allowedByRobots reports whether the client's user agent may fetch u.
// An unreachable robots.txt is treated as allow-all.
func (c *Client) allowedByRobots(ctx context.Context, u *url.URL) (bool, error) {
	origin := u.Scheme + "://" + u.Host

	data, hit := c.robots.Get(origin)
	if !hit {
		resp, err := c.http.R().SetContext(ctx).Get(origin + "/robots.txt")
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			return true, nil
		}
		data, err = robotstxt.FromStatusAndBytes(resp.StatusCode(), resp.Body())
		if err != nil {
			return true, nil
		}
		c.robots.Add(origin, data)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, c.userAgent), nil
}
