package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/json-iterator/go/extra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// The backend has served counts as floats and numbers as strings.
func init() {
	extra.RegisterFuzzyDecoders()
}

const (
	DefaultBaseURL = "https://api-production-0673.up.railway.app"
	DefaultTimeout = 20 * time.Second

	maxErrorBody = 512
)

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// Client talks to the wallet analytics backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a backend client.
func NewClient(opts Options, logger *zap.Logger) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Client{
		baseURL:    base,
		httpClient: hc,
		retries:    opts.Retries,
		retryDelay: delay,
		logger:     logger.Named("api"),
		now:        time.Now,
	}
}

// TopWallets fetches one page of the ranked wallet list.
func (c *Client) TopWallets(ctx context.Context, q domain.TopQuery) ([]domain.Wallet, error) {
	var raw []wireWallet
	if err := c.get(ctx, "/wallets/top", q.Values(), &raw); err != nil {
		return nil, fmt.Errorf("fetch top wallets page %d: %w", q.Page, err)
	}
	now := c.now()
	wallets := make([]domain.Wallet, 0, len(raw))
	for _, w := range raw {
		wallets = append(wallets, w.toDomain(now))
	}
	return wallets, nil
}

// GetWallet fetches the primary record for one address.
func (c *Client) GetWallet(ctx context.Context, address string) (*domain.Wallet, error) {
	var raw wireWallet
	if err := c.get(ctx, "/wallets/"+url.PathEscape(address), nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch wallet %s: %w", address, err)
	}
	w := raw.toDomain(c.now())
	if w.Address == "" {
		w.Address = address
	}
	return &w, nil
}

// GetLive fetches the supplemental record through the backend's live proxy.
func (c *Client) GetLive(ctx context.Context, address string) (*domain.LiveEnvelope, error) {
	var env domain.LiveEnvelope
	if err := c.get(ctx, "/proxy/cielo/"+url.PathEscape(address), nil, &env); err != nil {
		return nil, fmt.Errorf("fetch live record %s: %w", address, err)
	}
	return &env, nil
}

// Stats fetches the overview statistics.
func (c *Client) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var raw wireStats
	if err := c.get(ctx, "/stats/overview", nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}
	stats := raw.toDomain()
	return &stats, nil
}

// get performs a GET with optional retries on transport errors and 5xx.
// 4xx responses are never retried.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	if c.retries <= 0 {
		body, err := c.doRequest(ctx, endpoint)
		if err != nil {
			return err
		}
		return c.decode(endpoint, body, out)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryDelay
	policy.MaxInterval = c.retryDelay * 10

	notify := func(err error, d time.Duration) {
		c.logger.Warn("Retrying request",
			zap.String("url", endpoint), zap.Error(err), zap.Duration("backoff", d))
	}

	operation := func() ([]byte, error) {
		body, err := c.doRequest(ctx, endpoint)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && !retryable(se.Code) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return body, nil
	}

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.retries+1)),
		backoff.WithNotify(notify))
	if err != nil {
		return err
	}
	return c.decode(endpoint, body, out)
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("Request completed",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &StatusError{Code: resp.StatusCode, URL: endpoint, Body: snippet}
	}
	return body, nil
}

func (c *Client) decode(endpoint string, body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Debug("Malformed response", zap.String("url", endpoint), zap.Error(err))
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
