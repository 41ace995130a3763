package resilience

import (
	"context"
	"errors"
	"net/http"
)

// HTTPClient executes outbound requests through an optional circuit breaker.
// Each call is a single attempt: failed upstream requests surface to the
// caller immediately and are never replayed. Deadlines come from the request
// context or the underlying http.Client timeout.
type HTTPClient struct {
	Client  *http.Client
	Breaker *Breaker
}

// Do performs the request once. When the breaker is open the request is
// rejected with ErrOpenCircuit without touching the network. Responses with a
// 5xx status count as failures for the breaker but are returned as-is.
func (cl HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if cl.Client == nil {
		return nil, errors.New("resilience: http client not configured")
	}
	if cl.Breaker != nil && !cl.Breaker.Allow(ctx) {
		return nil, ErrOpenCircuit
	}

	resp, err := cl.Client.Do(req.WithContext(ctx))
	if cl.Breaker != nil {
		cl.Breaker.Report(ctx, err == nil && resp.StatusCode < 500)
	}
	return resp, err
}
