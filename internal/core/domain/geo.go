package domain

import "math"

// GeoPoint represents a geographic coordinate in decimal degrees (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat" mapstructure:"lat"`
	Lng float64 `json:"lng" mapstructure:"lng"`
}

// Valid reports whether the point lies within -90..90 latitude and -180..180 longitude.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// IsFinite reports whether neither coordinate is NaN or infinite.
func (p GeoPoint) IsFinite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	North float64 `json:"north" mapstructure:"north"`
	South float64 `json:"south" mapstructure:"south"`
	East  float64 `json:"east" mapstructure:"east"`
	West  float64 `json:"west" mapstructure:"west"`
}

// Contains reports whether p falls inside the box, edges included.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.South && p.Lat <= b.North &&
		p.Lng >= b.West && p.Lng <= b.East
}

// ServiceArea is the region location-bearing requests must fall within.
type ServiceArea struct {
	City     string   `json:"city" mapstructure:"city"`
	State    string   `json:"state" mapstructure:"state"`
	Country  string   `json:"country" mapstructure:"country"`
	Bounds   Bounds   `json:"bounds" mapstructure:"bounds"`
	Center   GeoPoint `json:"center" mapstructure:"center"`
	RadiusKm float64  `json:"radius_km" mapstructure:"radius_km"`
}
