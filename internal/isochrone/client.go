package isochrone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// BaseURL is the openrouteservice isochrone endpoint; the travel mode is
// appended as a path segment.
const BaseURL = "https://api.openrouteservice.org/v2/isochrones"

// maxRetries bounds the retry budget for one lookup. A lookup that keeps
// failing returns an error; it never aborts the surrounding render or warm
// run.
const maxRetries = 4

// ErrNotFound is returned when the API answers with an empty feature set for
// a location.
var ErrNotFound = errors.New("no isochrone returned for location")

// Client calls the openrouteservice isochrone API. The free tier is
// rate-limited, so calls go through a client-side limiter on top of the
// bounded retry.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an isochrone API client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// 20 requests/min is the documented free-tier budget.
		limiter: rate.NewLimiter(rate.Limit(20.0/60.0), 1),
	}
}

// NewClientFromEnv creates a client from the ORS_API_KEY env var. Returns nil
// when the key is not set: the on-demand fetch path is disabled and only
// pre-cached entries are served (graceful degradation).
func NewClientFromEnv() *Client {
	key := os.Getenv("ORS_API_KEY")
	if key == "" {
		return nil
	}
	return NewClient(key)
}

type isochroneRequest struct {
	Locations [][2]float64 `json:"locations"`
	Range     []int        `json:"range"`
}

type isochroneResponse struct {
	Features []struct {
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Isochrone fetches the polygon reachable from (lat, lng) within the given
// duration and mode, returning its raw coordinate array in the shape the
// cache file stores. Timeouts, rate-limit responses and server errors are
// retried with exponential backoff a bounded number of times; other client
// errors fail immediately.
func (c *Client) Isochrone(ctx context.Context, lat, lng float64, seconds int, mode string) (json.RawMessage, error) {
	body, err := json.Marshal(isochroneRequest{
		Locations: [][2]float64{{lng, lat}},
		Range:     []int{seconds},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding isochrone request: %w", err)
	}

	var coords json.RawMessage
	op := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			fmt.Sprintf("%s/%s", c.baseURL, mode), bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Authorization", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network errors and timeouts are worth retrying.
			return fmt.Errorf("isochrone request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			// fall through to decode
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("isochrone API returned HTTP %d", resp.StatusCode)
		default:
			io.Copy(io.Discard, resp.Body)
			return backoff.Permanent(fmt.Errorf("isochrone API returned HTTP %d", resp.StatusCode))
		}

		var decoded isochroneResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding isochrone response: %w", err))
		}
		if len(decoded.Features) == 0 {
			return backoff.Permanent(ErrNotFound)
		}
		coords = decoded.Features[0].Geometry.Coordinates
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return coords, nil
}
