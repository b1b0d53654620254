// Package weather implements the OpenWeatherMap client used by the agent
// skills: current conditions, 5-day forecast, air pollution and geocoding.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultGeoURL  = "https://api.openweathermap.org/geo/1.0"
)

// Client talks to the OpenWeatherMap API.
type Client struct {
	apiKey  string
	baseURL string
	geoURL  string
	units   string
	client  *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the data API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithGeoURL overrides the geocoding API base URL.
func WithGeoURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.geoURL = u
		}
	}
}

// WithUnits sets the temperature units (metric, imperial, standard).
func WithUnits(units string) Option {
	return func(c *Client) {
		if units != "" {
			c.units = units
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("weather api key is required")
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		geoURL:  defaultGeoURL,
		units:   "metric",
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Current returns current weather for a city query such as "London" or "Paris,FR".
func (c *Client) Current(ctx context.Context, city string) (*CurrentWeather, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("units", c.units)

	var out CurrentWeather
	if err := c.get(ctx, c.baseURL+"/weather", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forecast returns the 5-day / 3-hour forecast for a city.
func (c *Client) Forecast(ctx context.Context, city string) (*Forecast, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("units", c.units)

	var out Forecast
	if err := c.get(ctx, c.baseURL+"/forecast", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AirQuality returns air pollution data for the given coordinates.
func (c *Client) AirQuality(ctx context.Context, lat, lon float64) (*AirQuality, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var out AirQuality
	if err := c.get(ctx, c.baseURL+"/air_pollution", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Geocode resolves a city name to candidate locations.
func (c *Client) Geocode(ctx context.Context, city string) ([]Location, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("limit", "5")

	var out []Location
	if err := c.get(ctx, c.geoURL+"/direct", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, target any) error {
	params.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("weather api call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return status.Error(codes.NotFound, "location not found")
	}
	if resp.StatusCode != http.StatusOK {
		return status.Errorf(codes.Unavailable, "weather api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode weather response: %w", err)
	}
	return nil
}
