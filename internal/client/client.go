// Package client talks to a running journal API server.
package client

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"trading-journal/internal/analytics"
	"trading-journal/internal/api"
	"trading-journal/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// APIError is a non-retryable error answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("server returned %d: %s (request %s)", e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client is a rate limited, retrying client for the journal API.
type Client struct {
	client     *resty.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
	maxRetries int
	backoff    func(attempt int) time.Duration
}

// New creates a client for the API at cfg.BaseURL.
func New(cfg *config.Client, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	return &Client{
		client:     client,
		logger:     logger.Named("client"),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		maxRetries: attempts,
		backoff:    exponentialBackoff,
	}
}

// exponentialBackoff waits 1s, 2s, 4s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

func filterParams(f analytics.Filter) map[string]string {
	params := map[string]string{}
	if f.MemberID != nil {
		params["member_id"] = strconv.FormatUint(uint64(*f.MemberID), 10)
	}
	if f.StartDate != nil {
		params["start_date"] = f.StartDate.Format(analytics.DateLayout)
	}
	if f.EndDate != nil {
		params["end_date"] = f.EndDate.Format(analytics.DateLayout)
	}
	return params
}

// doRequest executes req with rate limiting, retrying 429, 5xx and network
// failures with backoff. A Retry-After header overrides the backoff.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	req.SetContext(ctx).SetError(&api.ErrorResponse{})
	for i := 0; i < c.maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)
		if err == nil && !resp.IsError() {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		shouldRetry := false
		var retryAfter time.Duration
		if err == nil {
			switch status := resp.StatusCode(); {
			case status == http.StatusTooManyRequests:
				shouldRetry = true
				if seconds, perr := strconv.Atoi(resp.Header().Get("Retry-After")); perr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			case status >= 500:
				shouldRetry = true
			}
			err = apiError(resp)
		} else {
			shouldRetry = true
		}

		if !shouldRetry || i == c.maxRetries-1 {
			break
		}
		if retryAfter == 0 {
			retryAfter = c.backoff(i)
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, err
}

func apiError(resp *resty.Response) error {
	e := &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
	if body, ok := resp.Error().(*api.ErrorResponse); ok && body.Error != "" {
		e.Message = body.Error
		e.RequestID = body.RequestID
	}
	return e
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	if _, err := c.doRequest(ctx, resty.MethodGet, "/health", c.client.R()); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// MonthlyPerformance fetches the monthly buckets for f, most recent first.
func (c *Client) MonthlyPerformance(ctx context.Context, f analytics.Filter) ([]api.MonthlyPerformance, error) {
	var out []api.MonthlyPerformance
	req := c.client.R().SetQueryParams(filterParams(f)).SetResult(&out)
	if _, err := c.doRequest(ctx, resty.MethodGet, "/analytics/monthly-performance", req); err != nil {
		return nil, fmt.Errorf("failed to get monthly performance: %w", err)
	}
	return out, nil
}

// CapitalGrowth fetches the growth curve for f.
func (c *Client) CapitalGrowth(ctx context.Context, f analytics.Filter) ([]api.GrowthPoint, error) {
	var out []api.GrowthPoint
	req := c.client.R().SetQueryParams(filterParams(f)).SetResult(&out)
	if _, err := c.doRequest(ctx, resty.MethodGet, "/analytics/capital-growth", req); err != nil {
		return nil, fmt.Errorf("failed to get capital growth: %w", err)
	}
	return out, nil
}

// TopSymbols fetches the limit best symbols. limit 0 asks for all of them.
func (c *Client) TopSymbols(ctx context.Context, memberID *uint, limit int) ([]api.SymbolRank, error) {
	var out []api.SymbolRank
	params := filterParams(analytics.Filter{MemberID: memberID})
	params["limit"] = strconv.Itoa(limit)

	req := c.client.R().SetQueryParams(params).SetResult(&out)
	if _, err := c.doRequest(ctx, resty.MethodGet, "/analytics/top-symbols", req); err != nil {
		return nil, fmt.Errorf("failed to get top symbols: %w", err)
	}
	return out, nil
}

// Dashboard fetches the dashboard for f. rangePreset is only used when f
// has no date bounds.
func (c *Client) Dashboard(ctx context.Context, f analytics.Filter, rangePreset string, limit int) (*api.DashboardResponse, error) {
	var out api.DashboardResponse
	params := filterParams(f)
	if rangePreset != "" && !f.HasDateBounds() {
		params["range"] = rangePreset
	}
	params["limit"] = strconv.Itoa(limit)

	req := c.client.R().SetQueryParams(params).SetResult(&out)
	if _, err := c.doRequest(ctx, resty.MethodGet, "/analytics/dashboard", req); err != nil {
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}
	return &out, nil
}
