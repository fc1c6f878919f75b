// Package barmania provides a client for the Barmania clip list endpoint.
package barmania

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// ClipListPath is the endpoint that serves the clip list in chunks.
const ClipListPath = "/query/getcliplist.php"

// Client defines the Barmania operations.
type Client interface {
	// ClipChunk requests one chunk of the clip list and returns the raw body.
	ClipChunk(ctx context.Context, q ChunkQuery) (*ChunkResponse, error)
}

// ChunkQuery selects one page of the clip list.
type ChunkQuery struct {
	Count    int    // clips per chunk
	Category string // "all" or a category filter
	Sort     string // e.g. "dateasc"
	Chunk    int    // zero-based page index
}

func (q ChunkQuery) params() map[string]string {
	return map[string]string{
		"count":   strconv.Itoa(q.Count),
		"cat":     q.Category,
		"sort":    q.Sort,
		"chunknr": strconv.Itoa(q.Chunk),
	}
}

// ChunkResponse is the raw reply to a chunk request. Replies are returned
// whatever their status; the body decides how the walk continues.
type ChunkResponse struct {
	StatusCode int
	Body       []byte
	Elapsed    time.Duration
}

// OK reports whether the endpoint answered with a 2xx status.
func (r *ChunkResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Option configures the Barmania client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.timeout = d
	}
}

// WithRateLimit caps requests per second. Zero disables the limiter.
func WithRateLimit(perSecond float64) Option {
	return func(c *httpClient) {
		c.rateLimit = perSecond
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.hc = hc
	}
}

type httpClient struct {
	baseURL   string
	timeout   time.Duration
	rateLimit float64
	userAgent string
	hc        *http.Client

	http *resty.Client
}

// NewClient creates a client that sends the given cookies with every request.
func NewClient(cookies []*http.Cookie, opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://www.barmania.nl",
	}
	for _, opt := range opts {
		opt(c)
	}

	var rc *resty.Client
	if c.hc != nil {
		rc = resty.NewWithClient(c.hc)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(c.baseURL)
	rc.SetCookies(cookies)
	if c.timeout > 0 {
		rc.SetTimeout(c.timeout)
	}
	if c.userAgent != "" {
		rc.SetHeader("User-Agent", c.userAgent)
	}

	if c.rateLimit > 0 {
		limiter := rate.NewLimiter(rate.Limit(c.rateLimit), 1)
		rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	c.http = rc
	return c
}

func (c *httpClient) ClipChunk(ctx context.Context, q ChunkQuery) (*ChunkResponse, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(q.params()).
		Post(ClipListPath)
	if err != nil {
		return nil, eris.Wrapf(err, "barmania: clip chunk %d", q.Chunk)
	}

	return &ChunkResponse{
		StatusCode: res.StatusCode(),
		Body:       res.Body(),
		Elapsed:    res.Time(),
	}, nil
}
