package geo

import "github.com/samirrijal/heritagepass/internal/core/domain"

// GuwahatiArea is the default service area, centred on the Brahmaputra riverfront.
func GuwahatiArea() domain.ServiceArea {
	return domain.ServiceArea{
		City:     "Guwahati",
		State:    "Assam",
		Country:  "India",
		Bounds:   domain.Bounds{North: 26.25, South: 26.10, East: 91.85, West: 91.65},
		Center:   domain.GeoPoint{Lat: 26.1839, Lng: 91.7464},
		RadiusKm: 20,
	}
}

// GuwahatiReference returns the default landmark, meeting point, police
// station and tourist area tables.
func GuwahatiReference() domain.ReferenceData {
	return domain.ReferenceData{
		Landmarks: []domain.Landmark{
			{ID: "kamakhya_temple", Name: "Kamakhya Temple", Location: domain.GeoPoint{Lat: 26.1664, Lng: 91.7065}},
			{ID: "umananda_island", Name: "Umananda Island", Location: domain.GeoPoint{Lat: 26.1897, Lng: 91.7436}},
			{ID: "brahmaputra_riverfront", Name: "Brahmaputra Riverfront", Location: domain.GeoPoint{Lat: 26.1839, Lng: 91.7464}},
			{ID: "sualkuchi", Name: "Sualkuchi Silk Village", Location: domain.GeoPoint{Lat: 26.1700, Lng: 91.7500}},
			{ID: "pan_bazaar", Name: "Pan Bazaar", Location: domain.GeoPoint{Lat: 26.1864, Lng: 91.7432}},
			{ID: "dighalipukhuri", Name: "Dighalipukhuri Park", Location: domain.GeoPoint{Lat: 26.1864, Lng: 91.7432}},
			{ID: "kaziranga", Name: "Kaziranga National Park", Location: domain.GeoPoint{Lat: 26.5727, Lng: 93.1720}},
			{ID: "assam_state_museum", Name: "Assam State Museum", Location: domain.GeoPoint{Lat: 26.1872, Lng: 91.7461}},
			{ID: "guwahati_railway_station", Name: "Guwahati Railway Station", Location: domain.GeoPoint{Lat: 26.1852, Lng: 91.7511}},
			{ID: "lokpriya_gopinath_bordoloi_airport", Name: "LGBI Airport", Location: domain.GeoPoint{Lat: 26.1065, Lng: 91.5859}},
		},
		MeetingPoints: []domain.MeetingPoint{
			{
				ID: "kamakhya_main_gate", Name: "Kamakhya Temple Main Gate",
				Location:   domain.GeoPoint{Lat: 26.1665, Lng: 91.7065},
				Address:    "Kamakhya Temple Main Gate, Nilachal Hill, Guwahati",
				Type:       "temple",
				LandmarkID: "kamakhya_temple",
			},
			{
				ID: "kachari_ghat", Name: "Kachari Ghat",
				Location:   domain.GeoPoint{Lat: 26.1839, Lng: 91.7464},
				Address:    "Brahmaputra Riverfront near Kachari Ghat, Guwahati",
				Type:       "riverfront",
				LandmarkID: "brahmaputra_riverfront",
			},
			{
				ID: "dighalipukhuri_park", Name: "Dighalipukhuri Park Entrance",
				Location:   domain.GeoPoint{Lat: 26.1864, Lng: 91.7432},
				Address:    "Dighalipukhuri Park Entrance, Guwahati",
				Type:       "park",
				LandmarkID: "dighalipukhuri",
			},
			{
				ID: "lakhra_market", Name: "Lakhra Market Entrance",
				Location:   domain.GeoPoint{Lat: 26.1800, Lng: 91.7400},
				Address:    "Lakhra Market Entrance, Guwahati",
				Type:       "market",
				LandmarkID: "pan_bazaar",
			},
		},
		PoliceStations: []domain.Place{
			{Name: "Pan Bazaar Police Station", Location: domain.GeoPoint{Lat: 26.1870, Lng: 91.7440}},
			{Name: "Paltan Bazaar Police Station", Location: domain.GeoPoint{Lat: 26.1840, Lng: 91.7480}},
		},
		TouristAreas: []domain.Place{
			{Name: "Kamakhya Temple Area", Location: domain.GeoPoint{Lat: 26.1664, Lng: 91.7065}},
			{Name: "Riverfront Area", Location: domain.GeoPoint{Lat: 26.1839, Lng: 91.7464}},
		},
	}
}
