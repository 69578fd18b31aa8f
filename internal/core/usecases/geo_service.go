package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samirrijal/heritagepass/internal/core/domain"
	"github.com/samirrijal/heritagepass/internal/core/geo"
	"github.com/samirrijal/heritagepass/internal/core/ports"
	"github.com/samirrijal/heritagepass/internal/pkg/geospatial"
	"github.com/samirrijal/heritagepass/internal/pkg/metrics"
	"github.com/samirrijal/heritagepass/internal/pkg/telemetry"
)

// ErrInvalidPoint is returned for coordinates outside [-90,90] x [-180,180].
var ErrInvalidPoint = errors.New("invalid coordinates")

// ErrUnknownFormat is returned by FormatCoordinates for an unsupported format.
var ErrUnknownFormat = errors.New("unknown coordinate format")

const maxRouteStops = 50

// GeoService exposes the geo utility with read-through caching of the
// proximity lookups.
type GeoService struct {
	locator    *geo.Locator
	cache      ports.CacheService
	ttlSeconds int
}

// NewGeoService creates a new GeoService. cache may be nil.
func NewGeoService(locator *geo.Locator, cache ports.CacheService, ttlSeconds int) *GeoService {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &GeoService{locator: locator, cache: cache, ttlSeconds: ttlSeconds}
}

// Area returns the configured service area.
func (s *GeoService) Area() domain.ServiceArea {
	return s.locator.Area()
}

// NearestLandmark returns the landmark closest to p.
func (s *GeoService) NearestLandmark(ctx context.Context, p domain.GeoPoint) (domain.LandmarkMatch, error) {
	if !p.Valid() {
		return domain.LandmarkMatch{}, ErrInvalidPoint
	}
	ctx, span := telemetry.Tracer().Start(ctx, "geo.NearestLandmark")
	defer span.End()

	key := fmt.Sprintf("geo:landmark:%.5f:%.5f", p.Lat, p.Lng)
	var match domain.LandmarkMatch
	if s.cached(ctx, "nearest_landmark", key, &match) {
		span.SetAttributes(telemetry.AttrCacheHit.Bool(true))
		return match, nil
	}

	match = s.locator.NearestLandmark(p)
	s.store(ctx, key, match)
	return match, nil
}

// MeetingPoints returns the meeting points within maxKm of p, closest first.
// A negative maxKm uses geo.DefaultMeetingPointRadiusKm; zero keeps only
// coincident points.
func (s *GeoService) MeetingPoints(ctx context.Context, p domain.GeoPoint, maxKm float64) ([]domain.NearbyMeetingPoint, error) {
	if !p.Valid() {
		return nil, ErrInvalidPoint
	}
	if maxKm < 0 {
		maxKm = geo.DefaultMeetingPointRadiusKm
	}
	ctx, span := telemetry.Tracer().Start(ctx, "geo.MeetingPoints")
	defer span.End()

	key := fmt.Sprintf("geo:meeting:%.5f:%.5f:%.2f", p.Lat, p.Lng, maxKm)
	var points []domain.NearbyMeetingPoint
	if s.cached(ctx, "meeting_points", key, &points) && points != nil {
		span.SetAttributes(telemetry.AttrCacheHit.Bool(true))
		return points, nil
	}

	points = s.locator.SafeMeetingPoints(p, maxKm)
	s.store(ctx, key, points)
	return points, nil
}

// ServiceAreaCheck reports whether p is served. A negative buffer uses
// geo.DefaultBufferKm.
func (s *GeoService) ServiceAreaCheck(p domain.GeoPoint, bufferKm float64) bool {
	if bufferKm < 0 {
		bufferKm = geo.DefaultBufferKm
	}
	return s.locator.IsWithinServiceArea(p, bufferKm)
}

// SuggestRoute orders stops for a walking tour.
func (s *GeoService) SuggestRoute(ctx context.Context, stops []domain.RouteStop, start *domain.GeoPoint) (domain.Route, error) {
	if len(stops) > maxRouteStops {
		return domain.Route{}, fmt.Errorf("too many stops: %d (max %d)", len(stops), maxRouteStops)
	}
	if start != nil && !start.Valid() {
		return domain.Route{}, ErrInvalidPoint
	}
	for _, st := range stops {
		if !st.Location.Valid() {
			return domain.Route{}, fmt.Errorf("stop %q: %w", st.ID, ErrInvalidPoint)
		}
	}

	_, span := telemetry.Tracer().Start(ctx, "geo.SuggestRoute")
	defer span.End()
	span.SetAttributes(telemetry.AttrStopsCount.Int(len(stops)))

	return s.locator.SuggestRoute(stops, start), nil
}

// TravelTime estimates the time between two points for a travel mode.
func (s *GeoService) TravelTime(from, to domain.GeoPoint, mode string) (domain.TravelEstimate, error) {
	if !from.Valid() || !to.Valid() {
		return domain.TravelEstimate{}, ErrInvalidPoint
	}
	if mode == "" {
		mode = "walking"
	}
	return s.locator.TravelTime(from, to, mode), nil
}

// Safety scores p for the given time of day ("day" or "night").
func (s *GeoService) Safety(ctx context.Context, p domain.GeoPoint, timeOfDay string) (domain.SafetyReport, error) {
	if !p.Valid() {
		return domain.SafetyReport{}, ErrInvalidPoint
	}
	if timeOfDay == "" {
		timeOfDay = geo.TimeOfDayDay
	}
	_, span := telemetry.Tracer().Start(ctx, "geo.Safety")
	defer span.End()

	report := s.locator.SafetyScore(p, timeOfDay)
	span.SetAttributes(telemetry.AttrSafetyScore.Int(report.Score))
	return report, nil
}

// Describe returns an approximate address for p.
func (s *GeoService) Describe(p domain.GeoPoint) (domain.Address, error) {
	if !p.Valid() {
		return domain.Address{}, ErrInvalidPoint
	}
	return s.locator.DescribeLocation(p), nil
}

// FormatCoordinates renders p as "decimal" (default), "dms" or "geojson".
func (s *GeoService) FormatCoordinates(p domain.GeoPoint, format string) (string, error) {
	switch format {
	case "":
		format = geospatial.FormatDecimal
	case geospatial.FormatDecimal, geospatial.FormatDMS, geospatial.FormatGeoJSON:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if !p.Valid() {
		return "", ErrInvalidPoint
	}
	return geospatial.FormatCoordinates(p.Lat, p.Lng, format), nil
}

// Landmarks returns a page of the landmark table and its total size.
func (s *GeoService) Landmarks(offset, limit int) ([]domain.Landmark, int) {
	all := s.locator.Reference().Landmarks
	total := len(all)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []domain.Landmark{}, total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end], total
}

func (s *GeoService) cached(ctx context.Context, operation, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil || json.Unmarshal(data, out) != nil {
		metrics.CacheMisses.WithLabelValues(operation).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(operation).Inc()
	return true
}

func (s *GeoService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(value); err == nil {
		_ = s.cache.Set(ctx, key, data, s.ttlSeconds)
	}
}
