package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const (
	// DefaultBaseURL is the weather provider data API root.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// DefaultUnits selects the metric unit system on every request.
	DefaultUnits = "metric"
)

// Doer executes an HTTP request. *http.Client satisfies it, as do the
// resilience decorators layered on by the caller; the client itself never
// retries.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches current conditions and the interval forecast for a
// location from the weather provider.
type Client struct {
	baseURL      string
	apiKey       string
	units        string
	forecastDays int
	httpClient   Doer
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the provider API root, mainly for tests.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) { c.baseURL = base }
}

// WithForecastDays overrides the aggregation horizon.
func WithForecastDays(days int) ClientOption {
	return func(c *Client) { c.forecastDays = days }
}

// WithUnits overrides the unit system query parameter.
func WithUnits(units string) ClientOption {
	return func(c *Client) { c.units = units }
}

// NewClient creates a weather Client. A nil doer falls back to
// http.DefaultClient.
func NewClient(doer Doer, apiKey string, opts ...ClientOption) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	c := &Client{
		baseURL:      DefaultBaseURL,
		apiKey:       apiKey,
		units:        DefaultUnits,
		forecastDays: DefaultForecastDays,
		httpClient:   doer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// currentPayload mirrors the fields of the /weather response we consume.
type currentPayload struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []Condition `json:"weather"`
}

// forecastPayload mirrors the /forecast response.
type forecastPayload struct {
	List []ForecastItem `json:"list"`
}

// errorPayload is the provider's error body shape. The cod field arrives
// as a string on some endpoints and a bare number on others.
type errorPayload struct {
	Cod     flexCode `json:"cod"`
	Message string   `json:"message"`
}

// flexCode unmarshals from either a JSON string or a JSON number.
type flexCode string

func (c *flexCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = flexCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = flexCode(n.String())
	return nil
}

// legResult captures the outcome of one of the two concurrent requests.
type legResult struct {
	status int
	body   []byte
	err    error
}

// Fetch issues the current-conditions and interval-forecast requests
// concurrently, joins both, and returns the normalized response with the
// forecast already aggregated into daily summaries.
//
// A transport failure on either leg fails the whole operation with
// NETWORK_ERROR; a non-success status is classified by the provider's
// error code with its message passed through, checking the current leg
// first. Anything else unexpected is wrapped as UNKNOWN.
func (c *Client) Fetch(ctx context.Context, loc Location) (WeatherResponse, error) {
	current := c.get(ctx, "/weather", loc)
	forecast := c.get(ctx, "/forecast", loc)

	curRes := <-current
	fcRes := <-forecast

	if curRes.err != nil || fcRes.err != nil {
		return WeatherResponse{}, NewAPIError(CodeNetworkError, "network request failed")
	}

	for _, res := range []legResult{curRes, fcRes} {
		if res.status < 200 || res.status >= 300 {
			return WeatherResponse{}, ClassifyResponse(res.status, res.body, "failed to fetch weather data")
		}
	}

	var cur currentPayload
	if err := json.Unmarshal(curRes.body, &cur); err != nil {
		return WeatherResponse{}, WrapUnknown(err)
	}
	var fc forecastPayload
	if err := json.Unmarshal(fcRes.body, &fc); err != nil {
		return WeatherResponse{}, WrapUnknown(err)
	}

	daily, err := AggregateDaily(fc.List, c.forecastDays)
	if err != nil {
		return WeatherResponse{}, WrapUnknown(err)
	}

	return WeatherResponse{
		Current: CurrentWeather{
			Temp:      cur.Main.Temp,
			FeelsLike: cur.Main.FeelsLike,
			Humidity:  cur.Main.Humidity,
			WindSpeed: cur.Wind.Speed,
			Weather:   cur.Weather,
		},
		Daily: daily,
	}, nil
}

// get starts one request and reports its outcome on the returned channel.
// Both requests are started before either is awaited.
func (c *Client) get(ctx context.Context, endpoint string, loc Location) <-chan legResult {
	ch := make(chan legResult, 1)
	go func() {
		values := url.Values{}
		values.Set("lat", formatCoord(loc.Lat))
		values.Set("lon", formatCoord(loc.Lon))
		values.Set("units", c.units)
		values.Set("appid", c.apiKey)

		u := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, values.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			ch <- legResult{err: err}
			return
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			ch <- legResult{err: err}
			return
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			ch <- legResult{err: err}
			return
		}
		ch <- legResult{status: resp.StatusCode, body: body}
	}()
	return ch
}

// ClassifyResponse converts a non-success provider response into an
// APIError using the provider's error code and message, falling back to
// the HTTP status as a string when the body is unparseable.
func ClassifyResponse(status int, body []byte, fallbackMessage string) *APIError {
	code := strconv.Itoa(status)
	message := fallbackMessage

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Cod != "" {
			code = string(payload.Cod)
		}
		if payload.Message != "" {
			message = payload.Message
		}
	}
	return NewAPIError(code, message)
}
