package http

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/heritagepass/internal/core/domain"
	"github.com/samirrijal/heritagepass/internal/core/usecases"
	"github.com/samirrijal/heritagepass/internal/core/validation"
)

// ValidateHandler validates a JSON object as the entity named in the path.
// A valid payload returns 200 with the cleaned data; an invalid one 422.
func ValidateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entity := c.Params("entity")

		var raw map[string]any
		if err := json.Unmarshal(c.Body(), &raw); err != nil || raw == nil {
			return errBadRequest(c, "request body must be a JSON object")
		}

		res, err := deps.Validation.Validate(c.UserContext(), entity, raw)
		switch {
		case errors.Is(err, validation.ErrUnknownEntity):
			return errNotFound(c, "unknown entity: "+entity)
		case err != nil:
			return errBadRequest(c, err.Error())
		}

		if !res.IsValid {
			return errValidation(c, res)
		}
		return c.JSON(res)
	}
}

// SanitizeHandler returns any JSON document with its strings sanitized.
func SanitizeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var value any
		if err := json.Unmarshal(c.Body(), &value); err != nil {
			return errBadRequest(c, "request body must be valid JSON")
		}
		return c.JSON(fiber.Map{"data": deps.Validation.Sanitize(c.UserContext(), value)})
	}
}

// EntitiesHandler lists the entity kinds accepted by ValidateHandler.
func EntitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"entities": deps.Validation.Entities()})
	}
}

// queryFloat parses a required float query parameter.
func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, errors.New(key + " is required")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(key + " must be a number")
	}
	return f, nil
}

// queryPoint reads a point from <prefix>lat and <prefix>lng.
func queryPoint(c *fiber.Ctx, prefix string) (domain.GeoPoint, error) {
	lat, err := queryFloat(c, prefix+"lat")
	if err != nil {
		return domain.GeoPoint{}, err
	}
	lng, err := queryFloat(c, prefix+"lng")
	if err != nil {
		return domain.GeoPoint{}, err
	}
	p := domain.GeoPoint{Lat: lat, Lng: lng}
	if !p.Valid() || !p.IsFinite() {
		return domain.GeoPoint{}, usecases.ErrInvalidPoint
	}
	return p, nil
}

// geoError maps service errors to HTTP errors.
func geoError(c *fiber.Ctx, err error) error {
	if errors.Is(err, usecases.ErrInvalidPoint) || errors.Is(err, usecases.ErrUnknownFormat) {
		return errBadRequest(c, err.Error())
	}
	LoggerFromCtx(c).Error("geo request failed", "error", err)
	return errInternal(c, "internal error")
}

// NearestLandmarkHandler returns the landmark closest to lat/lng.
func NearestLandmarkHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := queryPoint(c, "")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		match, err := deps.Geo.NearestLandmark(c.UserContext(), p)
		if err != nil {
			return geoError(c, err)
		}
		return c.JSON(match)
	}
}

// MeetingPointsHandler lists meeting points within max_km of lat/lng.
func MeetingPointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := queryPoint(c, "")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		maxKm := -1.0
		if c.Query("max_km") != "" {
			if maxKm, err = queryFloat(c, "max_km"); err != nil {
				return errBadRequest(c, err.Error())
			}
			if maxKm < 0 || maxKm > 50 {
				return errBadRequest(c, "max_km must be between 0 and 50")
			}
		}
		points, err := deps.Geo.MeetingPoints(c.UserContext(), p, maxKm)
		if err != nil {
			return geoError(c, err)
		}
		return c.JSON(fiber.Map{"meeting_points": points, "count": len(points)})
	}
}

type routeRequest struct {
	Stops []domain.RouteStop `json:"stops"`
	Start *domain.GeoPoint   `json:"start"`
}

// RouteHandler orders the posted stops into a walking route.
func RouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req routeRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		route, err := deps.Geo.SuggestRoute(c.UserContext(), req.Stops, req.Start)
		if err != nil {
			// Every SuggestRoute error is a problem with the posted stops.
			return errBadRequest(c, err.Error())
		}
		return c.JSON(route)
	}
}

// ServiceAreaHandler returns the service area and, when lat/lng are given,
// whether that point is served.
func ServiceAreaHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := fiber.Map{"area": deps.Geo.Area()}
		if c.Query("lat") == "" && c.Query("lng") == "" {
			return c.JSON(resp)
		}

		p, err := queryPoint(c, "")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		buffer := c.QueryFloat("buffer_km", -1)
		resp["point"] = p
		resp["within"] = deps.Geo.ServiceAreaCheck(p, buffer)
		return c.JSON(resp)
	}
}

// TravelTimeHandler estimates travel time between two points.
func TravelTimeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := queryPoint(c, "from_")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		to, err := queryPoint(c, "to_")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		est, err := deps.Geo.TravelTime(from, to, c.Query("mode", "walking"))
		if err != nil {
			return geoError(c, err)
		}
		return c.JSON(est)
	}
}

// SafetyHandler scores a location for the given time_of_day.
func SafetyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := queryPoint(c, "")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		tod := c.Query("time_of_day", "day")
		if tod != "day" && tod != "night" {
			return errBadRequest(c, "time_of_day must be day or night")
		}
		report, err := deps.Geo.Safety(c.UserContext(), p, tod)
		if err != nil {
			return geoError(c, err)
		}
		return c.JSON(report)
	}
}

// FormatHandler renders lat/lng in the requested format.
func FormatHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := queryPoint(c, "")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		format := c.Query("format", "decimal")
		s, err := deps.Geo.FormatCoordinates(p, format)
		if err != nil {
			return geoError(c, err)
		}
		return c.JSON(fiber.Map{"format": format, "formatted": s})
	}
}

// DescribeHandler returns an approximate address for lat/lng.
func DescribeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := queryPoint(c, "")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		addr, err := deps.Geo.Describe(p)
		if err != nil {
			return geoError(c, err)
		}
		return c.JSON(addr)
	}
}

// ListLandmarksHandler returns the landmark table, paginated.
func ListLandmarksHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c)
		landmarks, total := deps.Geo.Landmarks(offset, limit)

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: landmarks, Pagination: pg})
	}
}
