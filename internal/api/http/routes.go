package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/agrofleet/weather-gateway/internal/tools"
	"github.com/agrofleet/weather-gateway/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the gateway handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, registry *tools.Registry) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		var q forecastQuery
		if err := q.bind(c); err != nil {
			return writeError(c, err)
		}
		result, err := service.Forecast(c.Context(), q.toParams())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(result)
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var q historyQuery
		if err := q.bind(c); err != nil {
			return writeError(c, err)
		}
		result, err := service.History(c.Context(), q.toParams())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(result)
	})

	v1.Get("/weather/agriculture", func(c *fiber.Ctx) error {
		var q forecastQuery
		if err := q.bind(c); err != nil {
			return writeError(c, err)
		}
		result, err := service.Agricultural(c.Context(), q.toParams())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(result)
	})

	v1.Get("/tools", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"tools": registry.Definitions()})
	})

	v1.Post("/tools/:name", func(c *fiber.Ctx) error {
		inv, err := registry.Call(c.Context(), c.Params("name"), c.Body())
		if err != nil {
			if errors.Is(err, tools.ErrUnknownTool) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return writeError(c, err)
		}
		return c.JSON(inv)
	})
}

// ErrorHandler is the centralized Fiber error handler; it keeps transport
// errors in the same {"error": {...}} envelope as gateway errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	kind := "internal_error"
	switch {
	case code == fiber.StatusNotFound:
		kind = "not_found"
	case code >= 400 && code < 500:
		kind = "bad_request"
	}
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{"kind": kind, "message": err.Error()},
	})
}

// writeError serializes a gateway error verbatim into the boundary format.
func writeError(c *fiber.Ctx, err error) error {
	var gerr *weather.Error
	if errors.As(err, &gerr) {
		return c.Status(statusForKind(gerr.Kind)).JSON(fiber.Map{"error": gerr})
	}
	if errors.Is(err, tools.ErrInvalidArguments) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to handle request")
}

func statusForKind(k weather.Kind) int {
	switch k {
	case weather.KindUpstreamRejected, weather.KindMalformedUpstreamPayload:
		return fiber.StatusBadGateway
	case weather.KindUpstreamUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		if weather.IsCallerError(k) {
			return fiber.StatusBadRequest
		}
		return fiber.StatusInternalServerError
	}
}

// forecastQuery holds query parameters for forecast and agriculture
// endpoints. The validator tags mirror the domain rules so bad input is
// rejected before any upstream call.
type forecastQuery struct {
	LocationName string   `validate:"-"`
	Latitude     *float64 `validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `validate:"omitempty,min=-180,max=180"`
	Days         int      `validate:"omitempty,min=1,max=16"`
}

func (q *forecastQuery) bind(c *fiber.Ctx) error {
	q.LocationName = c.Query("location_name")

	var err error
	if q.Latitude, err = queryFloat(c, "latitude"); err != nil {
		return weather.Errorf(weather.KindInvalidCoordinates, "invalid latitude %q", c.Query("latitude"))
	}
	if q.Longitude, err = queryFloat(c, "longitude"); err != nil {
		return weather.Errorf(weather.KindInvalidCoordinates, "invalid longitude %q", c.Query("longitude"))
	}
	if daysStr := c.Query("days"); daysStr != "" {
		q.Days, err = strconv.Atoi(daysStr)
		if err != nil {
			return weather.Errorf(weather.KindInvalidTimeRange, "invalid days %q", daysStr)
		}
	}

	if err := validate.Struct(q); err != nil {
		return validationError(err)
	}
	return nil
}

func (q forecastQuery) toParams() weather.ForecastParams {
	return weather.ForecastParams{
		LocationName: q.LocationName,
		Latitude:     q.Latitude,
		Longitude:    q.Longitude,
		Days:         q.Days,
	}
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	LocationName string   `validate:"-"`
	Latitude     *float64 `validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `validate:"omitempty,min=-180,max=180"`
	StartDate    string   `validate:"required"`
	EndDate      string   `validate:"required"`
}

func (q *historyQuery) bind(c *fiber.Ctx) error {
	q.LocationName = c.Query("location_name")
	q.StartDate = c.Query("start_date")
	q.EndDate = c.Query("end_date")

	var err error
	if q.Latitude, err = queryFloat(c, "latitude"); err != nil {
		return weather.Errorf(weather.KindInvalidCoordinates, "invalid latitude %q", c.Query("latitude"))
	}
	if q.Longitude, err = queryFloat(c, "longitude"); err != nil {
		return weather.Errorf(weather.KindInvalidCoordinates, "invalid longitude %q", c.Query("longitude"))
	}

	if err := validate.Struct(q); err != nil {
		return validationError(err)
	}
	return nil
}

func (q historyQuery) toParams() weather.HistoryParams {
	return weather.HistoryParams{
		LocationName: q.LocationName,
		Latitude:     q.Latitude,
		Longitude:    q.Longitude,
		StartDate:    q.StartDate,
		EndDate:      q.EndDate,
	}
}

// queryFloat parses an optional float query parameter, nil when absent.
func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// validationError converts validator failures into the gateway's error
// taxonomy so transport-level rejection carries the same kinds as the
// domain resolver.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0].Field()
		switch field {
		case "Latitude", "Longitude":
			return weather.Errorf(weather.KindInvalidCoordinates, "%s out of range", field)
		default:
			return weather.Errorf(weather.KindInvalidTimeRange, "invalid %s", field)
		}
	}
	return err
}
