package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kelsos/meili-tasks/internal/config"
	"github.com/kelsos/meili-tasks/internal/logger"
)

// Response is a raw HTTP response: the status code and the full body.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport issues GET requests against the service. Non-2xx responses are
// not errors at this level; only failures to complete the exchange are.
type Transport interface {
	Get(ctx context.Context, endpoint string, query url.Values) (*Response, error)
}

// APIClient handles all HTTP communication with the search service
type APIClient struct {
	config     *config.Config
	httpClient *http.Client
}

// NewAPIClient creates a new API client with the given configuration
func NewAPIClient(cfg *config.Config) *APIClient {
	return &APIClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// BuildURL constructs a full URL for the given endpoint
func (c *APIClient) BuildURL(endpoint string, query url.Values) string {
	u := c.config.BaseURL() + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Get makes a GET request to the specified endpoint
func (c *APIClient) Get(ctx context.Context, endpoint string, query url.Values) (*Response, error) {
	return c.request(ctx, http.MethodGet, endpoint, query)
}

func (c *APIClient) request(ctx context.Context, method, endpoint string, query url.Values) (*Response, error) {
	url := c.BuildURL(endpoint, query)
	start := time.Now()
	logger.Debug("Starting %s request to %s", method, url)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("error creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("Request to %s failed after %v: %v", url, time.Since(start), err)
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("error reading response: %w", err)}
	}

	logger.Debug("Request to %s completed in %v with status %d", url, time.Since(start), resp.StatusCode)
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// Ping checks if the API is ready
func (c *APIClient) Ping(ctx context.Context) error {
	resp, err := c.Get(ctx, "/health", nil)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}
	return nil
}

// WaitForAPIReady pings the service once per delay until it answers or the
// configured number of attempts is exhausted.
func (c *APIClient) WaitForAPIReady(ctx context.Context, delay time.Duration) bool {
	logger.Info("Checking API readiness...")

	for attempt := 1; attempt <= c.config.APIReadyTimeout; attempt++ {
		logger.Debug("Checking API readiness (attempt %d/%d)...", attempt, c.config.APIReadyTimeout)

		if err := c.Ping(ctx); err == nil {
			logger.Info("API is ready!")
			return true
		}

		if attempt == c.config.APIReadyTimeout {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
	}

	logger.Error("API failed to become ready after %d attempts", c.config.APIReadyTimeout)
	return false
}
