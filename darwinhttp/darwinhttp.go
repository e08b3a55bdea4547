// Package darwinhttp sketches the shape a real upstream HTTP client for
// provider.ServiceProvider would take — request construction, auth header,
// and error wrapping — without actually integrating one. A live Darwin-style
// LDB integration is explicitly out of this core's scope: callers needing
// real data should implement provider.ServiceProvider themselves, or use
// mockprovider for development.
package darwinhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/onwardrail/core/boardconv"
	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/railerr"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
)

// Config holds the settings a real client would need: an API key, the
// service's base URL, and basic timeout/concurrency knobs. MaxConcurrent
// mirrors the semaphore-bounded concurrency the planner itself already
// applies via provider.FetchDeparturesBatched; a real client would likely
// apply its own limit independently, since the planner's batch size bounds
// requests per search, not across concurrent searches.
type Config struct {
	APIKey        string
	BaseURL       string
	MaxConcurrent int
	Timeout       time.Duration
}

// DefaultConfig returns the production Darwin-style LDB base URL with
// conservative concurrency and timeout defaults.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:        apiKey,
		BaseURL:       "https://api1.raildata.org.uk/1010-live-departure-board-dep-with-details/LDBWS",
		MaxConcurrent: 5,
		Timeout:       30 * time.Second,
	}
}

// Client is an illustrative provider.ServiceProvider backed by HTTP. It
// builds well-formed requests and demonstrates the error-wrapping
// convention a production client would follow, but does not attempt to
// authenticate against, or parse vendor-specific quirks of, any particular
// live upstream — that integration is deliberately out of scope here.
type Client struct {
	http *http.Client
	cfg  Config
}

// New constructs a Client. cfg.APIKey must be non-empty.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("darwinhttp: API key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
	}, nil
}

// GetDepartures fetches and converts a departure board.
func (c *Client) GetDepartures(ctx context.Context, code station.Code, after railtime.RailTime) ([]*domain.Service, error) {
	return c.fetchBoard(ctx, code, after, railerr.OpGetDepartures, "GetDepDetailsAsync")
}

// GetArrivals fetches and converts an arrival board.
func (c *Client) GetArrivals(ctx context.Context, code station.Code, after railtime.RailTime) ([]*domain.Service, error) {
	return c.fetchBoard(ctx, code, after, railerr.OpGetArrivals, "GetArrDetailsAsync")
}

func (c *Client) fetchBoard(ctx context.Context, code station.Code, after railtime.RailTime, op railerr.ProviderOp, endpoint string) ([]*domain.Service, error) {
	url := fmt.Sprintf("%s/%s/%s", c.cfg.BaseURL, endpoint, code.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, railerr.NewProvider(code.String(), op, railerr.KindTransport, errors.Wrap(err, "darwinhttp: build request"))
	}
	req.Header.Set("x-apikey", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, railerr.NewProvider(code.String(), op, railerr.KindTransport, errors.Wrap(err, "darwinhttp: request failed"))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, railerr.NewProvider(code.String(), op, railerr.KindUnauthorized, errors.New("darwinhttp: unauthorized"))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, railerr.NewProvider(code.String(), op, railerr.KindRateLimited, errors.New("darwinhttp: rate limited"))
	case resp.StatusCode == http.StatusNotFound:
		return nil, railerr.NewProvider(code.String(), op, railerr.KindServiceNotFound, errors.New("darwinhttp: station not found"))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, railerr.NewProvider(code.String(), op, railerr.KindUpstreamStatus, errors.Errorf("darwinhttp: unexpected status %d", resp.StatusCode))
	}

	var board boardconv.StationBoard
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		return nil, railerr.NewProvider(code.String(), op, railerr.KindMalformedPayload, errors.Wrap(err, "darwinhttp: decode response"))
	}

	return boardconv.ConvertBoard(board, after.Date(), nil)
}
