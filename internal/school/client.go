package school

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/backend-lingua/internal/resilience"
)

const maxErrorBodyBytes = 64 << 10

// APIError is a non-2xx reply from the school API. Message carries the
// upstream "error" field when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Config carries the connection settings for the school API.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Breaker *resilience.Breaker
}

// Client talks to the upstream LinguaSchool API. Every request authenticates
// with the api_key query parameter and is attempted exactly once.
type Client struct {
	base   *url.URL
	apiKey string
	http   resilience.HTTPClient
}

// NewClient validates the config and builds a client with an instrumented
// transport.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("school: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("school: base url must be absolute")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("school: api key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:   base,
		apiKey: cfg.APIKey,
		http: resilience.HTTPClient{
			Client: &http.Client{
				Timeout:   timeout,
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			},
			Breaker: cfg.Breaker,
		},
	}, nil
}

// Get issues a GET and decodes the JSON reply into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body and decodes the reply into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body and decodes the reply into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE and decodes the reply into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.endpoint(path, query)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("school: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("school: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("school: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(resp),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("school: decode %s %s reply: %w", method, path, err)
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	ref := *c.base
	ref.Path = strings.TrimRight(ref.Path, "/") + "/" + strings.TrimLeft(path, "/")

	values := url.Values{}
	for key, vals := range query {
		values[key] = vals
	}
	values.Set("api_key", c.apiKey)
	ref.RawQuery = values.Encode()
	return ref.String()
}

// extractErrorMessage pulls the upstream "error" field out of a failure body,
// falling back to the HTTP status line.
func extractErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err == nil && len(data) > 0 {
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil && strings.TrimSpace(body.Error) != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
