package pubchem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public PUG REST endpoint.
	DefaultBaseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"

	userAgent = "pubchem-mcp-go/1.0.0"
)

// Config holds the tunables of the PubChem client.
type Config struct {
	// BaseURL of the PUG REST API, without trailing slash.
	BaseURL string
	// CallsPerSecond caps the rate of outbound requests. Must be positive.
	CallsPerSecond float64
	// CacheTTL is the freshness window for cached responses.
	CacheTTL time.Duration
	// Timeout bounds each HTTP call.
	Timeout time.Duration
}

// DefaultConfig returns the config used when nothing is overridden.
// PubChem asks clients to stay under 5 requests per second.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		CallsPerSecond: 5.0,
		CacheTTL:       time.Hour,
		Timeout:        30 * time.Second,
	}
}

// Response is a raw upstream response: status code plus body. The client
// does not interpret bodies; that is the caller's job.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client is the single point of contact with the PubChem API. Every
// outbound call goes through the same pipeline: cache lookup, rate limiter
// wait, HTTP request, cache store on a 200. Failed responses are never
// cached, so transient errors are retried on the next call.
type Client struct {
	baseURL  string
	cacheTTL time.Duration
	http     *resty.Client
	limiter  *rate.Limiter
	cache    *responseCache
}

// NewClient creates a PubChem client, validating the config up front.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CallsPerSecond <= 0 {
		return nil, fmt.Errorf("calls per second must be positive, got %g", cfg.CallsPerSecond)
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("cache TTL must be positive, got %s", cfg.CacheTTL)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	httpClient := resty.New()
	httpClient.SetTimeout(cfg.Timeout)
	httpClient.SetHeader("User-Agent", userAgent)
	httpClient.SetHeader("Accept", "application/json")

	// Burst 1 turns the token bucket into a strict minimum-interval pacer.
	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		cacheTTL: cfg.CacheTTL,
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(cfg.CallsPerSecond), 1),
		cache:    newResponseCache(),
	}, nil
}

// urlJoin joins the base URL with a path, preserving the base path.
func (c *Client) urlJoin(path string) string {
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// get performs a cached, rate-limited GET. The URL doubles as the cache key.
func (c *Client) get(ctx context.Context, requestURL string) (*Response, error) {
	if resp, ok := c.cache.get(requestURL, c.cacheTTL); ok {
		return resp, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Kind: KindRequest, Message: err.Error()}
	}

	resp, err := c.http.R().SetContext(ctx).Get(requestURL)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	result := &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}
	if result.StatusCode == http.StatusOK {
		c.cache.put(requestURL, result)
	}
	return result, nil
}

// getJSON fetches a URL and decodes its body, converting non-2xx responses
// into status errors.
func (c *Client) getJSON(ctx context.Context, requestURL string, out any) error {
	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &APIError{Kind: KindUnexpected, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// getText fetches a URL and returns its body as plain text (SDF, MOL).
func (c *Client) getText(ctx context.Context, requestURL string) (string, error) {
	resp, err := c.get(ctx, requestURL)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}
	return string(resp.Body), nil
}

// postFormJSON performs a rate-limited form POST and decodes the response.
// POSTs are never cached.
func (c *Client) postFormJSON(ctx context.Context, requestURL string, form map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &APIError{Kind: KindRequest, Message: err.Error()}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(requestURL)
	if err != nil {
		return classifyTransportError(err)
	}
	if resp.StatusCode() != http.StatusOK {
		return statusError(&Response{StatusCode: resp.StatusCode(), Body: resp.Body()})
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &APIError{Kind: KindUnexpected, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func statusError(resp *Response) *APIError {
	msg := strings.TrimSpace(string(resp.Body))
	if len(msg) > 200 {
		cut := 200
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return &APIError{Kind: KindStatus, StatusCode: resp.StatusCode, Message: msg}
}

func classifyTransportError(err error) *APIError {
	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &APIError{Kind: KindRequest, Message: err.Error()}
	}
	return &APIError{Kind: KindUnexpected, Message: err.Error()}
}
