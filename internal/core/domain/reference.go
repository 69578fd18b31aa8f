package domain

// Landmark is a named point of interest used for proximity lookups.
type Landmark struct {
	ID       string   `json:"id" mapstructure:"id"`
	Name     string   `json:"name" mapstructure:"name"`
	Location GeoPoint `json:"coordinates" mapstructure:"location"`
}

// MeetingPoint is a known safe place for a guide and guests to meet.
type MeetingPoint struct {
	ID         string   `json:"id" mapstructure:"id"`
	Name       string   `json:"name" mapstructure:"name"`
	Location   GeoPoint `json:"coordinates" mapstructure:"location"`
	Address    string   `json:"address" mapstructure:"address"`
	Type       string   `json:"type" mapstructure:"type"`
	LandmarkID string   `json:"landmark,omitempty" mapstructure:"landmark"`
}

// Place is a plain named location (police station, tourist area).
type Place struct {
	Name     string   `json:"name" mapstructure:"name"`
	Location GeoPoint `json:"coordinates" mapstructure:"location"`
}

// ReferenceData holds the static tables loaded once at start.
// Table order is significant: ties resolve to the earlier entry.
type ReferenceData struct {
	Landmarks      []Landmark     `json:"landmarks" mapstructure:"landmarks"`
	MeetingPoints  []MeetingPoint `json:"meeting_points" mapstructure:"meeting_points"`
	PoliceStations []Place        `json:"police_stations" mapstructure:"police_stations"`
	TouristAreas   []Place        `json:"tourist_areas" mapstructure:"tourist_areas"`
}

// LandmarkMatch is the result of a nearest-landmark lookup.
type LandmarkMatch struct {
	Landmark
	DistanceKm float64 `json:"distance_km"`
}

// NearbyMeetingPoint is a meeting point annotated with distance and walking time.
type NearbyMeetingPoint struct {
	MeetingPoint
	DistanceKm         float64 `json:"distance_km"`
	WalkingTimeMinutes int     `json:"walking_time_minutes"`
}

// RouteStop is one stop of an itinerary route.
type RouteStop struct {
	ID       string   `json:"id,omitempty" mapstructure:"id"`
	Name     string   `json:"name,omitempty" mapstructure:"name"`
	Location GeoPoint `json:"coordinates" mapstructure:"coordinates"`
}

// Route is an ordered walk through itinerary stops.
type Route struct {
	Stops            []RouteStop `json:"route"`
	TotalDistanceKm  float64     `json:"total_distance_km"`
	TotalTimeMinutes int         `json:"total_time_minutes"`
	StopsCount       int         `json:"stops_count"`
}

// TravelEstimate is the estimated distance and duration between two points.
type TravelEstimate struct {
	DistanceKm           float64 `json:"distance_km"`
	EstimatedTimeMinutes int     `json:"estimated_time_minutes"`
	Mode                 string  `json:"mode"`
	SpeedKmh             float64 `json:"speed_kmh"`
}

// SafetyFactor is one contribution to a safety score.
type SafetyFactor struct {
	Factor string `json:"factor"`
	Impact string `json:"impact"`
	Note   string `json:"note"`
}

// SafetyReport describes how safe a location is for visitors.
type SafetyReport struct {
	Score            int            `json:"safety_score"`
	Level            string         `json:"safety_level"`
	Color            string         `json:"color"`
	Factors          []SafetyFactor `json:"factors"`
	Recommendations  []string       `json:"recommendations"`
	NearestPolice    *Place         `json:"nearest_police"`
	PoliceDistanceKm *float64       `json:"police_distance_km"`
}

// Address is an approximate, landmark-based description of a location.
type Address struct {
	FormattedAddress string `json:"formatted_address"`
	Landmark         string `json:"landmark"`
	City             string `json:"city"`
	State            string `json:"state"`
	Country          string `json:"country"`
	MapURL           string `json:"map_url"`
}
