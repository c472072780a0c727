package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/bytedance/sonic"

	"smartcal/internal/logger"
)

// currentWeather mirrors the subset of the OpenWeatherMap current
// weather payload the agent needs.
type currentWeather struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Name string `json:"name"`
}

// Reading is a single temperature observation
type Reading struct {
	Temp      float64
	Condition string
	Location  string
	TakenAt   time.Time
}

// Client fetches current conditions from OpenWeatherMap
type Client struct {
	apiURL   string
	apiKey   string
	location string
	http     *http.Client
}

// NewClient creates an OpenWeatherMap client.
// Requests use imperial units so temperatures compare directly against
// the Fahrenheit threshold.
func NewClient(apiURL, apiKey, location string, timeout time.Duration) (*Client, error) {
	if apiURL == "" {
		return nil, fmt.Errorf("WEATHER_API_URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("WEATHER_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		apiURL:   apiURL,
		apiKey:   apiKey,
		location: location,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// Current fetches the current temperature for the configured location.
// Transient failures are retried; client errors are not.
func (c *Client) Current(ctx context.Context) (*Reading, error) {
	var reading *Reading

	err := retry.Do(
		func() error {
			r, err := c.fetch(ctx)
			if err != nil {
				return err
			}
			reading = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().Uint("attempt", n+1).Err(err).Msg("weather fetch retry")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("error fetching weather: %w", err)
	}

	return reading, nil
}

func (c *Client) fetch(ctx context.Context) (*Reading, error) {
	params := url.Values{}
	params.Set("q", c.location)
	params.Set("appid", c.apiKey)
	params.Set("units", "imperial")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("weather API returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		// 4xx means a bad key or location; retrying won't help
		return nil, retry.Unrecoverable(fmt.Errorf("weather API returned %d: %s", resp.StatusCode, body))
	}

	var payload currentWeather
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("error parsing weather response: %w", err))
	}

	reading := &Reading{
		Temp:     payload.Main.Temp,
		Location: c.location,
		TakenAt:  time.Now(),
	}
	if len(payload.Weather) > 0 {
		reading.Condition = payload.Weather[0].Description
	}

	return reading, nil
}
