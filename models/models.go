package models

// ========== data model ==========

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Place is a point of interest. Canonical places belong to the package that
// generated them; discovered places share the shape but are never persisted.
type Place struct {
	Name        string      `json:"name" bson:"name"`
	Description string      `json:"description" bson:"description"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
}

// ItineraryItem is one day of a generated itinerary.
type ItineraryItem struct {
	Day      int    `json:"day" bson:"day"`
	Activity string `json:"activity" bson:"activity"`
}

// TravelPackage is the generated trip for one city. City is the identity key
// for saved trips (exact, case-sensitive match).
type TravelPackage struct {
	City        string          `json:"city" bson:"city"`
	Country     string          `json:"country" bson:"country"`
	Description string          `json:"description" bson:"description"`
	Duration    string          `json:"duration" bson:"duration"`
	Cost        string          `json:"cost" bson:"cost"`
	Coordinates Coordinates     `json:"coordinates" bson:"coordinates"`
	Places      []Place         `json:"places" bson:"places"`
	Itinerary   []ItineraryItem `json:"itinerary" bson:"itinerary"`
	BestTime    string          `json:"bestTime" bson:"best_time"`
	Themes      []string        `json:"themes" bson:"themes"`
}

// Clone returns a deep copy so stores and views never share slices.
func (p *TravelPackage) Clone() *TravelPackage {
	if p == nil {
		return nil
	}
	out := *p
	out.Places = append([]Place(nil), p.Places...)
	out.Itinerary = CloneItinerary(p.Itinerary)
	out.Themes = append([]string(nil), p.Themes...)
	return &out
}

// CloneItinerary copies an itinerary slice. A nil input stays nil.
func CloneItinerary(items []ItineraryItem) []ItineraryItem {
	if items == nil {
		return nil
	}
	out := make([]ItineraryItem, len(items))
	copy(out, items)
	return out
}

// NearbyRequest is the body of POST /api/nearby. Pointers distinguish a
// missing coordinate from a legitimate zero.
type NearbyRequest struct {
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
	City string   `json:"city"`
}

// TripRequest is the body of POST /api/trip.
type TripRequest struct {
	City string `json:"city"`
}
