// Package geo answers proximity questions over a service area and its static
// reference tables. All methods are pure and safe for concurrent use.
package geo

import (
	"math"
	"sort"

	"github.com/samirrijal/heritagepass/internal/core/domain"
	"github.com/samirrijal/heritagepass/internal/pkg/geospatial"
)

// DefaultBufferKm is the slack added to the service radius when none is given.
const DefaultBufferKm = 5.0

// DefaultMeetingPointRadiusKm bounds SafeMeetingPoints when callers have no preference.
const DefaultMeetingPointRadiusKm = 3.0

// Locator computes distances and proximity lookups against injected tables.
type Locator struct {
	area domain.ServiceArea
	ref  domain.ReferenceData
}

// NewLocator creates a Locator. The tables are read, never modified.
func NewLocator(area domain.ServiceArea, ref domain.ReferenceData) *Locator {
	return &Locator{area: area, ref: ref}
}

// Area returns the configured service area.
func (l *Locator) Area() domain.ServiceArea { return l.area }

// Reference returns the static tables.
func (l *Locator) Reference() domain.ReferenceData { return l.ref }

// Distance returns the great-circle distance between two points in kilometers.
func (l *Locator) Distance(a, b domain.GeoPoint) float64 {
	return geospatial.HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

// IsWithinServiceArea reports whether p is inside the bounding box AND within
// RadiusKm+bufferKm of the area center. Both checks must pass.
func (l *Locator) IsWithinServiceArea(p domain.GeoPoint, bufferKm float64) bool {
	if !l.area.Bounds.Contains(p) {
		return false
	}
	return l.Distance(p, l.area.Center) <= l.area.RadiusKm+bufferKm
}

// NearestLandmark returns the closest landmark to p. Ties go to the earlier
// table entry. An empty table yields an "unknown" landmark at p, 0 km away.
func (l *Locator) NearestLandmark(p domain.GeoPoint) domain.LandmarkMatch {
	best := -1
	minDist := math.Inf(1)
	for i, lm := range l.ref.Landmarks {
		if d := l.Distance(p, lm.Location); d < minDist {
			minDist = d
			best = i
		}
	}
	if best < 0 {
		return domain.LandmarkMatch{
			Landmark: domain.Landmark{ID: "unknown", Name: "Unknown Location", Location: p},
		}
	}
	return domain.LandmarkMatch{
		Landmark:   l.ref.Landmarks[best],
		DistanceKm: geospatial.Round(minDist, 2),
	}
}

// SafeMeetingPoints returns the meeting points within maxKm of p, closest first.
func (l *Locator) SafeMeetingPoints(p domain.GeoPoint, maxKm float64) []domain.NearbyMeetingPoint {
	out := make([]domain.NearbyMeetingPoint, 0, len(l.ref.MeetingPoints))
	for _, mp := range l.ref.MeetingPoints {
		d := l.Distance(p, mp.Location)
		if d > maxKm || math.IsNaN(d) {
			continue
		}
		out = append(out, domain.NearbyMeetingPoint{
			MeetingPoint:       mp,
			DistanceKm:         geospatial.Round(d, 2),
			WalkingTimeMinutes: int(geospatial.Minutes(d, geospatial.WalkingSpeedKmh)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// SuggestRoute orders stops with a nearest-neighbour walk. When start is set
// it acts as a virtual first node that is not part of the output; otherwise
// the first stop seeds the route. Ties go to the earlier stop.
func (l *Locator) SuggestRoute(stops []domain.RouteStop, start *domain.GeoPoint) domain.Route {
	route := domain.Route{Stops: make([]domain.RouteStop, 0, len(stops))}
	if len(stops) == 0 {
		return route
	}

	unvisited := make([]domain.RouteStop, len(stops))
	copy(unvisited, stops)

	var current domain.GeoPoint
	if start != nil {
		current = *start
	} else {
		current = unvisited[0].Location
		route.Stops = append(route.Stops, unvisited[0])
		unvisited = unvisited[1:]
	}

	var totalKm, totalMinutes float64
	for len(unvisited) > 0 {
		next := 0
		minDist := math.Inf(1)
		for i, s := range unvisited {
			if d := l.Distance(current, s.Location); d < minDist {
				minDist = d
				next = i
			}
		}
		// Unreachable distances (NaN) still visit the stop, in input order.
		if math.IsInf(minDist, 1) {
			minDist = 0
		}

		stop := unvisited[next]
		route.Stops = append(route.Stops, stop)
		unvisited = append(unvisited[:next:next], unvisited[next+1:]...)

		totalKm += minDist
		totalMinutes += geospatial.Minutes(minDist, geospatial.WalkingSpeedKmh)
		current = stop.Location
	}

	route.TotalDistanceKm = geospatial.Round(totalKm, 2)
	route.TotalTimeMinutes = int(totalMinutes)
	route.StopsCount = len(route.Stops)
	return route
}

// TravelTime estimates how long it takes to get from one point to another.
// Unknown modes are estimated at walking speed.
func (l *Locator) TravelTime(from, to domain.GeoPoint, mode string) domain.TravelEstimate {
	d := l.Distance(from, to)
	speed := geospatial.SpeedKmh(mode)
	return domain.TravelEstimate{
		DistanceKm:           geospatial.Round(d, 2),
		EstimatedTimeMinutes: int(geospatial.Minutes(d, speed)),
		Mode:                 mode,
		SpeedKmh:             speed,
	}
}

// DescribeLocation builds an approximate address from the nearest landmark.
func (l *Locator) DescribeLocation(p domain.GeoPoint) domain.Address {
	lm := l.NearestLandmark(p)
	return domain.Address{
		FormattedAddress: "Near " + lm.Name + ", " + l.area.City + ", " + l.area.State,
		Landmark:         lm.Name,
		City:             l.area.City,
		State:            l.area.State,
		Country:          l.area.Country,
		MapURL:           geospatial.MapURL(p.Lat, p.Lng, 15),
	}
}
