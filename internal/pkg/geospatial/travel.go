package geospatial

// Average speeds in km/h per travel mode.
var speeds = map[string]float64{
	"walking":   4,
	"bicycling": 15,
	"driving":   30,
	"auto":      20, // auto-rickshaw
}

// WalkingSpeedKmh is the speed used for walking estimates and unknown modes.
const WalkingSpeedKmh = 4.0

// SpeedKmh returns the average speed for mode, falling back to walking.
func SpeedKmh(mode string) float64 {
	if s, ok := speeds[mode]; ok {
		return s
	}
	return WalkingSpeedKmh
}

// Minutes converts a distance travelled at speedKmh into fractional minutes.
func Minutes(distanceKm, speedKmh float64) float64 {
	return distanceKm / speedKmh * 60
}
