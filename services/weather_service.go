package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// WeatherService is a thin passthrough to weatherapi.com used by the weather
// widget. The upstream payload is forwarded as-is; no normalization happens
// here.
type WeatherService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewWeatherService(apiKey string) *WeatherService {
	return &WeatherService{
		apiKey:  apiKey,
		baseURL: "http://api.weatherapi.com/v1",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Forecast fetches a 3-day forecast for a free-form location string or a
// "lat,lon" pair.
func (s *WeatherService) Forecast(ctx context.Context, location string) (json.RawMessage, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("weather lookup is not configured")
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("key", s.apiKey)
	q.Set("days", "3")
	q.Set("aqi", "no")
	q.Set("alerts", "no")

	return s.get(ctx, s.baseURL+"/forecast.json?"+q.Encode())
}

// Geocode resolves a location string to candidate places via the upstream
// autocomplete endpoint.
func (s *WeatherService) Geocode(ctx context.Context, location string) (json.RawMessage, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("weather lookup is not configured")
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("key", s.apiKey)

	return s.get(ctx, s.baseURL+"/search.json?"+q.Encode())
}

func (s *WeatherService) get(ctx context.Context, u string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	return raw, nil
}
