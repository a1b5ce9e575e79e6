package httpapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Jalson1982/WeatherApp/internal/geocode"
	"github.com/Jalson1982/WeatherApp/internal/geoloc"
	"github.com/Jalson1982/WeatherApp/internal/store"
	"github.com/Jalson1982/WeatherApp/internal/weather"
)

var validate = validator.New()

// Deps carries everything the HTTP handlers need. Locator is optional;
// without one the current-location endpoint reports the capability as
// unavailable.
type Deps struct {
	Store    *store.Store
	Geocoder *geocode.Client
	Locator  *geoloc.Locator

	LocationLimit   int
	MinSearchLength int
	IconBaseURL     string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		req, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := req.toLocation()
		if err := deps.Store.FetchWeatherData(c.Context(), loc); err != nil {
			return providerError(err)
		}
		return c.JSON(deps.Store.Snapshot())
	})

	v1.Get("/locations/search", func(c *fiber.Ctx) error {
		var req searchQuery
		if err := req.bind(c, deps); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		results, err := deps.Geocoder.Search(c.Context(), req.Query, req.Limit)
		if err != nil {
			return providerError(err)
		}
		return c.JSON(results)
	})

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(deps.Store.Snapshot())
	})

	v1.Get("/recent", func(c *fiber.Ctx) error {
		return c.JSON(deps.Store.Snapshot().RecentSearches)
	})

	v1.Post("/recent", func(c *fiber.Ctx) error {
		var loc weather.Location
		if err := c.BodyParser(&loc); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid location payload")
		}
		if err := validate.Struct(recentBody{ID: loc.ID, Name: loc.Name}); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		deps.Store.AddRecentSearch(loc)
		return c.JSON(deps.Store.Snapshot().RecentSearches)
	})

	v1.Get("/location/current", func(c *fiber.Ctx) error {
		if deps.Locator == nil {
			return fiber.NewError(fiber.StatusNotImplemented, "geolocation is not available")
		}
		loc, err := deps.Locator.CurrentLocation(c.Context())
		if err != nil {
			// The locator message is already user-facing; repeat it verbatim.
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return c.JSON(loc)
	})

	v1.Get("/icon/:code", func(c *fiber.Ctx) error {
		large := c.QueryBool("large")
		return c.JSON(fiber.Map{
			"url": weather.IconURLFrom(deps.IconBaseURL, c.Params("code"), large),
		})
	})
}

// providerError maps the classified client errors onto HTTP statuses.
// NETWORK_ERROR and UNKNOWN become 502s; a numeric provider code is
// reflected as-is so the caller sees what the upstream said.
func providerError(err error) error {
	code := weather.CodeOf(err)
	if status, convErr := strconv.Atoi(code); convErr == nil && status >= 400 && status < 600 {
		return fiber.NewError(status, err.Error())
	}
	if code == weather.CodeEmptyInput {
		return fiber.NewError(fiber.StatusNotFound, "no forecast available")
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}

// weatherQuery holds query parameters identifying a location.
type weatherQuery struct {
	Name string
	Lat  float64 `validate:"gte=-90,lte=90"`
	Lon  float64 `validate:"gte=-180,lte=180"`
}

func (w weatherQuery) toLocation() weather.Location {
	if w.Name == "" {
		w.Name = "Selected Location"
	}
	return weather.NewLocation(w.Name, w.Lat, w.Lon)
}

func parseWeatherQuery(c *fiber.Ctx) (weatherQuery, error) {
	var q weatherQuery

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, fiber.NewError(fiber.StatusBadRequest, "lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "invalid lat")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "invalid lon")
	}

	q.Lat = lat
	q.Lon = lon
	q.Name = c.Query("name")

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// searchQuery holds query parameters for the location search endpoint.
type searchQuery struct {
	Query string `validate:"required"`
	Limit int    `validate:"gte=1,lte=10"`
}

func (s *searchQuery) bind(c *fiber.Ctx, deps Deps) error {
	s.Query = c.Query("q")
	s.Limit = c.QueryInt("limit", deps.LocationLimit)

	if err := validate.Struct(s); err != nil {
		return err
	}
	if len(s.Query) < deps.MinSearchLength {
		return fiber.NewError(fiber.StatusBadRequest, "query too short")
	}
	return nil
}

// recentBody is the validated subset of a posted location.
type recentBody struct {
	ID   string `validate:"required"`
	Name string `validate:"required"`
}
