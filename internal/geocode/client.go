// Package geocode turns free-text place queries into candidate locations
// using the provider's direct geocoding endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Jalson1982/WeatherApp/internal/weather"
)

const (
	// DefaultBaseURL is the provider's geocoding API root.
	DefaultBaseURL = "https://api.openweathermap.org/geo/1.0"

	// DefaultLimit caps how many candidates one search returns.
	DefaultLimit = 5
)

// Client searches locations by name. Results keep the provider's
// relevance order; deduplication across calls is the store's concern,
// not the client's.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient weather.Doer
}

// NewClient creates a geocoding Client. A nil doer falls back to
// http.DefaultClient and an empty baseURL to DefaultBaseURL.
func NewClient(doer weather.Doer, apiKey, baseURL string) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: doer,
	}
}

// resultItem mirrors one element of the /direct response array.
type resultItem struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Search resolves a query to a ranked list of locations. Failures follow
// the weather client's taxonomy: NETWORK_ERROR on transport failure, the
// provider code on a non-success status, UNKNOWN otherwise.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]weather.Location, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))
	values.Set("appid", c.apiKey)

	u := fmt.Sprintf("%s/direct?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, weather.WrapUnknown(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, weather.NewAPIError(weather.CodeNetworkError, "network request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, weather.WrapUnknown(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, weather.ClassifyResponse(resp.StatusCode, body, "location search failed")
	}

	var items []resultItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, weather.WrapUnknown(err)
	}

	locations := make([]weather.Location, 0, len(items))
	for _, item := range items {
		loc := weather.NewLocation(
			fmt.Sprintf("%s, %s", item.Name, item.Country),
			item.Lat,
			item.Lon,
		)
		locations = append(locations, loc)
	}
	return locations, nil
}
