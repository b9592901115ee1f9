package indicator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"
)

// GDPClient reads GDP per capita for one country from the World Bank API.
type GDPClient struct {
	baseURL     string
	countryCode string
	httpClient  *http.Client
}

func NewGDPClient(baseURL, countryCode string, timeout time.Duration) *GDPClient {
	return &GDPClient{
		baseURL:     baseURL,
		countryCode: countryCode,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type gdpEntry struct {
	Value *float64 `json:"value"`
}

// Fetch returns the most recent GDP per capita figure, rounded to whole
// currency units. The World Bank response is a positional two-element array
// (metadata, then data points); anything else is an error.
func (c *GDPClient) Fetch(ctx context.Context) (int, error) {
	u := fmt.Sprintf("%s/v2/country/%s/indicator/NY.GDP.PCAP.CD?format=json&per_page=1",
		c.baseURL, url.PathEscape(c.countryCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("gdp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("gdp API error: status %d", resp.StatusCode)
	}

	var parts []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&parts); err != nil {
		return 0, fmt.Errorf("decode gdp response: %w", err)
	}
	if len(parts) < 2 {
		return 0, fmt.Errorf("gdp response has %d elements, want 2", len(parts))
	}

	var entries []gdpEntry
	if err := json.Unmarshal(parts[1], &entries); err != nil {
		return 0, fmt.Errorf("decode gdp data points: %w", err)
	}
	if len(entries) == 0 || entries[0].Value == nil {
		return 0, fmt.Errorf("gdp response has no value")
	}

	return int(math.Round(*entries[0].Value)), nil
}
