package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// One attempt per invocation, bounded by this timeout. No retries.
const requestTimeout = 10 * time.Second

// ErrMalformed marks a response that decoded as JSON but lacks the
// expected temperature shape. Callers distinguish it from transport
// failures to pick the right user-facing fallback.
var ErrMalformed = errors.New("weather response missing temperature")

// Observation is the subset of the current-weather response the bot uses.
type Observation struct {
	TempC       float64
	Description string
}

// Client fetches current weather from the OpenWeatherMap collaborator.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New constructs a weather client for one API credential.
func New(apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("weather api key is required")
	}

	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

// Current looks up current metric-unit weather for a city.
//
// A reachable endpoint that answers without the expected "main.temp" field
// returns ErrMalformed; every other failure is a transport error.
func (c *Client) Current(ctx context.Context, city string) (Observation, error) {
	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	endpoint := c.baseURL + "/weather?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Observation{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Observation{}, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Main *struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Observation{}, fmt.Errorf("decode weather response: %w", err)
	}

	if payload.Main == nil {
		return Observation{}, ErrMalformed
	}

	observation := Observation{TempC: payload.Main.Temp}
	if len(payload.Weather) > 0 {
		observation.Description = payload.Weather[0].Description
	}

	return observation, nil
}
