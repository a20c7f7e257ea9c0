// Package transit talks to the Transport for NSW trip planner API.
package transit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fkcurrie/transit-led-golang/internal/logging"
	"github.com/fkcurrie/transit-led-golang/internal/types"
)

const (
	endpointStopFinder = "stop_finder"
	endpointDepartures = "departure_mon"
	endpointTrip       = "trip"

	apiVersion = "10.2.1.42"
)

var (
	// ErrNoMatch means a well-formed response had no departure for the platform
	ErrNoMatch = errors.New("no departure for platform")
	// ErrNoJourney means the trip planner returned no direct journey on the line
	ErrNoJourney = errors.New("no direct journey on line")
	// ErrStopNotFound means the stop finder returned no location
	ErrStopNotFound = errors.New("stop not found")
	// ErrUnexpectedStatus wraps any non-200 response
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// excludedModes are the means-of-transport classes dropped from every query
// so that only trains come back: metro, light rail, bus, coach, ferry and
// school bus.
var excludedModes = []int{2, 4, 5, 7, 9, 11}

// Metrics receives one observation per API call
type Metrics interface {
	ObserveFetch(endpoint, result string, d time.Duration)
}

// Client represents a trip planner API client
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
	metrics Metrics
}

// NewClient creates a new trip planner client. metrics may be nil.
func NewClient(cfg types.TransitConfig, logger *slog.Logger, metrics Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.RequestTimeout()},
		logger:  logging.Component(logger, "transit"),
		metrics: metrics,
	}
}

// baseParams returns the query parameters shared by all endpoints
func baseParams() url.Values {
	return url.Values{
		"outputFormat":      {"rapidJSON"},
		"coordOutputFormat": {"EPSG:4326"},
		"version":           {apiVersion},
	}
}

// excludeNonRail adds the mode exclusion filters to params
func excludeNonRail(params url.Values) {
	params.Set("excludedMeans", "checkbox")
	for _, mode := range excludedModes {
		params.Set(fmt.Sprintf("exclMOT_%d", mode), "1")
	}
}

// get issues a GET to endpoint and decodes the JSON body into out
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) (err error) {
	start := time.Now()
	defer func() {
		c.observe(endpoint, err, time.Since(start))
	}()

	u := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "apikey "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "http_response_body")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %w: %d", endpoint, ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) observe(endpoint string, err error, d time.Duration) {
	if c.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.metrics.ObserveFetch(endpoint, result, d)
}

// ResolveStop returns the best-match stop id for a station name
func (c *Client) ResolveStop(ctx context.Context, station string) (string, error) {
	params := baseParams()
	params.Set("type_sf", "stop")
	params.Set("name_sf", station)

	var resp stopFinderResponse
	if err := c.get(ctx, endpointStopFinder, params, &resp); err != nil {
		return "", err
	}
	if len(resp.Locations) == 0 || resp.Locations[0].ID == "" {
		return "", fmt.Errorf("%w: %q", ErrStopNotFound, station)
	}

	id := resp.Locations[0].ID
	c.logger.Info("resolved stop", slog.String("station", station), slog.String("stop_id", id))
	return id, nil
}
