package weather

import (
	"strconv"
)

// Location represents a place the user can fetch weather for.
// ID is derived from the coordinates so the same place always maps
// to the same id regardless of how it was found.
type Location struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// NewLocation builds a Location with a deterministic coordinate-based id.
func NewLocation(name string, lat, lon float64) Location {
	return Location{
		ID:   LocationID(lat, lon),
		Name: name,
		Lat:  lat,
		Lon:  lon,
	}
}

// LocationID returns the canonical id for a pair of coordinates.
// Repeated searches for the same place must yield the same id, so the
// coordinates are rendered without exponent notation or trailing zeros.
func LocationID(lat, lon float64) string {
	return formatCoord(lat) + "-" + formatCoord(lon)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Condition is a provider weather classification. Opaque passthrough data;
// the icon key feeds IconURL.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentWeather is the normalized snapshot of conditions at fetch time.
type CurrentWeather struct {
	Temp      float64     `json:"temp"`
	FeelsLike float64     `json:"feels_like"`
	Humidity  float64     `json:"humidity"`
	WindSpeed float64     `json:"wind_speed"`
	Weather   []Condition `json:"weather"`
}

// ForecastItem is one raw interval sample from the forecast endpoint,
// typically at 3-hour resolution over a 5-day horizon.
type ForecastItem struct {
	Dt   int64 `json:"dt"`
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

// DailyTemperature carries the per-day temperature summary. Day is the
// arithmetic mean; Morn/Eve/Night are the samples at the start,
// three-quarter point and end of the day's interval list.
type DailyTemperature struct {
	Day   float64 `json:"day"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

// DailyForecast is the day-granularity summary derived from interval
// samples. Weather holds the conditions of the first sample grouped into
// the day, and Dt is that sample's timestamp.
type DailyForecast struct {
	Dt        int64            `json:"dt"`
	Temp      DailyTemperature `json:"temp"`
	FeelsLike float64          `json:"feels_like"`
	Humidity  float64          `json:"humidity"`
	WindSpeed float64          `json:"wind_speed"`
	Weather   []Condition      `json:"weather"`
}

// WeatherResponse bundles everything one fetch produces. It has no identity
// beyond the request that produced it and is replaced wholesale by the next
// successful fetch.
type WeatherResponse struct {
	Current CurrentWeather  `json:"current"`
	Daily   []DailyForecast `json:"daily"`
}
