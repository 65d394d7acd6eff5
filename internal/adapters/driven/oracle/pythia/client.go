// Package pythia is a REST client for the shared framework oracle.
package pythia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.OracleClient = (*Client)(nil)

// Oracle operations, used in RemoteError.Op.
const (
	OpPing       = "ping"
	OpLastUpdate = "last-update"
	OpPull       = "pull"
	OpForecast   = "forecast"
	OpFind       = "find"
)

// Config holds the oracle client configuration.
type Config struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	RatePerSecond float64

	// CacheSize bounds the cache of positive Find answers. Zero disables it.
	CacheSize int
}

// Client talks to the oracle over HTTP. It never retries on its own.
type Client struct {
	http    *resty.Client
	limiter *RateLimiter
	cache   *lru.Cache[string, domain.FrameworkRecord]
}

// NewClient creates an oracle client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("%w: oracle.url", domain.ErrConfigurationMissing)
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	c := &Client{
		http:    httpClient,
		limiter: NewRateLimiter(cfg.RatePerSecond),
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, domain.FrameworkRecord](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating oracle cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Ping checks that the oracle answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, OpPing, "/api/ping", nil, nil)
	return err
}

// LastUpdate returns the oracle's last modification time.
func (c *Client) LastUpdate(ctx context.Context) (time.Time, error) {
	var out lastUpdateResponse
	if _, err := c.get(ctx, OpLastUpdate, "/api/frameworks/last-update", nil, &out); err != nil {
		return time.Time{}, err
	}
	return fromMillis(out.LastUpdate), nil
}

// Pull returns the records changed since the watermark.
func (c *Client) Pull(ctx context.Context, since time.Time) ([]domain.FrameworkRecord, error) {
	var out pullResponse
	params := map[string]string{"since": strconv.FormatInt(millis(since), 10)}
	if _, err := c.get(ctx, OpPull, "/api/frameworks/pull", params, &out); err != nil {
		return nil, err
	}

	records := make([]domain.FrameworkRecord, 0, len(out.Frameworks))
	for _, dto := range out.Frameworks {
		r, err := dto.toDomain()
		if err != nil {
			return nil, &domain.RemoteError{Op: OpPull, Err: err}
		}
		records = append(records, r)
	}
	return records, nil
}

// Forecast returns how many records changed since the watermark.
func (c *Client) Forecast(ctx context.Context, since time.Time) (int64, error) {
	var out forecastResponse
	params := map[string]string{"since": strconv.FormatInt(millis(since), 10)}
	if _, err := c.get(ctx, OpForecast, "/api/frameworks/forecast", params, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Find looks up one record. A miss returns nil, nil.
func (c *Client) Find(ctx context.Context, name, internalType string) (*domain.FrameworkRecord, error) {
	key := domain.IdentityKey(name, internalType)
	if c.cache != nil {
		if r, ok := c.cache.Get(key); ok {
			logger.Debug("oracle cache hit for %s (%s)", name, internalType)
			return &r, nil
		}
	}

	var out frameworkDTO
	params := map[string]string{"name": name, "internalType": internalType}
	status, err := c.get(ctx, OpFind, "/api/frameworks/find", params, &out)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r, err := out.toDomain()
	if err != nil {
		return nil, &domain.RemoteError{Op: OpFind, Err: err}
	}
	if c.cache != nil {
		c.cache.Add(key, r)
	}
	return &r, nil
}

// get performs one throttled GET and decodes a JSON body into out.
// It returns the HTTP status, or 0 when no response was received.
func (c *Client) get(ctx context.Context, op, path string, params map[string]string, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, &domain.RemoteError{Op: op, Err: err}
	}

	req := c.http.R().SetContext(ctx).ForceContentType("application/json")
	if params != nil {
		req.SetQueryParams(params)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Get(path)
	if err != nil {
		return 0, &domain.RemoteError{Op: op, Err: err}
	}

	status := resp.StatusCode()
	c.limiter.Observe(status, resp.Header())

	if resp.IsError() {
		body := strings.TrimSpace(resp.String())
		if body == "" {
			body = http.StatusText(status)
		}
		cause := errors.New(body)
		if status == http.StatusTooManyRequests {
			cause = fmt.Errorf("%w: %s", domain.ErrRateLimited, body)
		}
		return status, &domain.RemoteError{Op: op, StatusCode: status, Err: cause}
	}
	return status, nil
}
