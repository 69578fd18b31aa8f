package geo

import (
	"math"

	"github.com/samirrijal/heritagepass/internal/core/domain"
	"github.com/samirrijal/heritagepass/internal/pkg/geospatial"
)

const (
	TimeOfDayDay   = "day"
	TimeOfDayNight = "night"
)

// SafetyScore rates p from 1 to 10 based on police proximity, tourist
// footfall and time of day.
func (l *Locator) SafetyScore(p domain.GeoPoint, timeOfDay string) domain.SafetyReport {
	score := 10
	var factors []domain.SafetyFactor

	var nearest *domain.Place
	policeDist := math.Inf(1)
	for i, st := range l.ref.PoliceStations {
		if d := l.Distance(p, st.Location); d < policeDist {
			policeDist = d
			nearest = &l.ref.PoliceStations[i]
		}
	}

	switch {
	case policeDist <= 1:
		factors = append(factors, domain.SafetyFactor{Factor: "Police proximity", Impact: "+2", Note: "Close to police station"})
		score += 2
	case policeDist <= 3:
		factors = append(factors, domain.SafetyFactor{Factor: "Police proximity", Impact: "+1", Note: "Moderately close to police station"})
		score++
	default:
		factors = append(factors, domain.SafetyFactor{Factor: "Police proximity", Impact: "-1", Note: "Far from police station"})
		score--
	}

	touristArea := false
	for _, a := range l.ref.TouristAreas {
		if l.Distance(p, a.Location) <= 2 {
			touristArea = true
			break
		}
	}
	if touristArea {
		factors = append(factors, domain.SafetyFactor{Factor: "Tourist area", Impact: "+1", Note: "Popular tourist location"})
		score++
	} else {
		factors = append(factors, domain.SafetyFactor{Factor: "Tourist area", Impact: "0", Note: "Regular area"})
	}

	if timeOfDay == TimeOfDayNight {
		factors = append(factors, domain.SafetyFactor{Factor: "Time of day", Impact: "-2", Note: "Night time - extra caution needed"})
		score -= 2
	}

	level, color := safetyLevel(score)
	report := domain.SafetyReport{
		Score:           max(1, min(10, score)),
		Level:           level,
		Color:           color,
		Factors:         factors,
		Recommendations: safetyRecommendations(score, timeOfDay),
	}
	if nearest != nil {
		place := *nearest
		d := geospatial.Round(policeDist, 2)
		report.NearestPolice = &place
		report.PoliceDistanceKm = &d
	}
	return report
}

func safetyLevel(score int) (level, color string) {
	switch {
	case score >= 9:
		return "Very Safe", "green"
	case score >= 7:
		return "Safe", "lightgreen"
	case score >= 5:
		return "Moderate", "yellow"
	case score >= 3:
		return "Caution", "orange"
	default:
		return "Avoid", "red"
	}
}

// safetyRecommendations works on the unclamped score.
func safetyRecommendations(score int, timeOfDay string) []string {
	var recs []string
	if score <= 5 {
		recs = append(recs, "Travel in groups", "Avoid carrying valuables")
	}
	if timeOfDay == TimeOfDayNight {
		recs = append(recs, "Use well-lit routes", "Inform someone about your location")
	}
	if score <= 3 {
		recs = append(recs, "Consider postponing visit", "Use verified transportation only")
	}
	return append(recs, "Save emergency contacts", "Share live location with trusted contact")
}
