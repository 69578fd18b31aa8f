package geospatial

import (
	"fmt"
	"math"
	"strconv"
)

// Coordinate output formats understood by FormatCoordinates.
const (
	FormatDecimal = "decimal"
	FormatDMS     = "dms"
	FormatGeoJSON = "geojson"
)

// FormatCoordinates renders lat/lng as decimal degrees (default), degrees
// minutes seconds, or a GeoJSON point.
func FormatCoordinates(lat, lng float64, format string) string {
	switch format {
	case FormatDMS:
		latDir, lngDir := "N", "E"
		if lat < 0 {
			latDir = "S"
		}
		if lng < 0 {
			lngDir = "W"
		}
		return dms(lat) + latDir + ", " + dms(lng) + lngDir
	case FormatGeoJSON:
		return fmt.Sprintf(`{"type": "Point", "coordinates": [%s, %s]}`, ftoa(lng), ftoa(lat))
	default:
		return fmt.Sprintf("%.6f, %.6f", lat, lng)
	}
}

func dms(v float64) string {
	abs := math.Abs(v)
	deg := math.Trunc(abs)
	mins := math.Trunc((abs - deg) * 60)
	secs := (abs - deg - mins/60) * 3600
	return fmt.Sprintf("%d°%d'%.2f\"", int(deg), int(mins), secs)
}

// MapURL returns a link that opens the point on Google Maps.
func MapURL(lat, lng float64, zoom int) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s&z=%d", ftoa(lat), ftoa(lng), zoom)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
