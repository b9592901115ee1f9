// Package indicator proxies the public environmental data sources shown on
// the landing page. Both upstreams are untrusted and schema-fragile; every
// fetch either yields a value or an error the caller swallows into "no data".
package indicator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// AQIClient reads the air-quality index for a city from the WAQI feed API.
type AQIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewAQIClient(baseURL, token string, timeout time.Duration) *AQIClient {
	return &AQIClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type aqiResponse struct {
	Status string `json:"status"`
	Data   struct {
		AQI float64 `json:"aqi"`
	} `json:"data"`
}

// Fetch returns the current AQI for a city slug, or an error on any
// transport, status, or shape problem.
func (c *AQIClient) Fetch(ctx context.Context, city string) (int, error) {
	u := fmt.Sprintf("%s/feed/%s/?token=%s", c.baseURL, url.PathEscape(city), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("aqi request for %s: %w", city, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("aqi API error for %s: status %d", city, resp.StatusCode)
	}

	var parsed aqiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode aqi response for %s: %w", city, err)
	}
	if parsed.Status != "ok" {
		return 0, fmt.Errorf("aqi API returned status %q for %s", parsed.Status, city)
	}

	return int(parsed.Data.AQI), nil
}
