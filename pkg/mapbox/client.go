package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/geo"
)

const (
	defaultBaseURL             = "https://api.mapbox.com"
	responseBodyReadLimit int64 = 1024
)

var (
	errAccessTokenRequired = errors.New("mapbox access token is required")
)

// Client wraps the Mapbox geocoding and directions APIs.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Mapbox base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Mapbox client given an access token.
func NewClient(accessToken string, opts ...Option) (*Client, error) {
	trimmedToken := strings.TrimSpace(accessToken)
	if trimmedToken == "" {
		return nil, errAccessTokenRequired
	}

	client := &Client{
		accessToken: trimmedToken,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// Coordinates is the geocoded latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// DrivingRoute is the normalized directions result.
type DrivingRoute struct {
	DistanceMiles   float64
	DurationMinutes float64
}

// Geocode resolves a free-form US street address to coordinates. Exactly one
// candidate is requested; zero features means the address did not resolve.
func (c *Client) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mapbox client not configured")
	}
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json", strings.TrimRight(c.baseURL, "/"), url.PathEscape(trimmed))
	query := url.Values{}
	query.Set("access_token", c.accessToken)
	query.Set("limit", "1")
	query.Set("types", "address")
	query.Set("country", "us")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build geocode request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute geocode request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "geocode request failed")
	}

	var apiResp struct {
		Features []struct {
			// Mapbox centers are [longitude, latitude]
			Center []float64 `json:"center"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode geocode response")
	}

	if len(apiResp.Features) == 0 || len(apiResp.Features[0].Center) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address could not be geocoded").WithDetails(map[string]string{"address": trimmed})
	}

	center := apiResp.Features[0].Center
	return &Coordinates{
		Latitude:  center[1],
		Longitude: center[0],
	}, nil
}

// DrivingDirections returns road distance and travel time between two points.
func (c *Client) DrivingDirections(ctx context.Context, origin, destination Coordinates) (*DrivingRoute, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mapbox client not configured")
	}

	coords := fmt.Sprintf("%f,%f;%f,%f", origin.Longitude, origin.Latitude, destination.Longitude, destination.Latitude)
	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/driving/%s", strings.TrimRight(c.baseURL, "/"), coords)
	query := url.Values{}
	query.Set("access_token", c.accessToken)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build directions request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute directions request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "directions request failed")
	}

	var apiResp struct {
		Routes []struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode directions response")
	}

	if len(apiResp.Routes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "no driving route found")
	}

	route := apiResp.Routes[0]
	return &DrivingRoute{
		DistanceMiles:   route.Distance / geo.MetersPerMile,
		DurationMinutes: route.Duration / 60,
	}, nil
}
