package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrShape reports a payload that parsed as JSON but does not match the
// expected package or place shape.
var ErrShape = errors.New("payload does not match schema")

// wire types keep every field a pointer so absent and null values can be told
// apart from zero values.
type wireCoordinates struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type wirePlace struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Coordinates *wireCoordinates `json:"coordinates"`
}

type wireItem struct {
	Day      *float64 `json:"day"`
	Activity *string  `json:"activity"`
}

type wirePackage struct {
	City        *string          `json:"city"`
	Country     *string          `json:"country"`
	Description *string          `json:"description"`
	Duration    *string          `json:"duration"`
	Cost        *string          `json:"cost"`
	Coordinates *wireCoordinates `json:"coordinates"`
	Places      *[]wirePlace     `json:"places"`
	Itinerary   *[]wireItem      `json:"itinerary"`
	BestTime    *string          `json:"bestTime"`
	Themes      *[]string        `json:"themes"`
}

// DecodePackage parses a generated travel package and validates its shape.
// Any violation returns an error wrapping ErrShape; no partial package is
// ever returned.
func DecodePackage(data []byte) (*TravelPackage, error) {
	var w wirePackage
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}

	if w.City == nil || strings.TrimSpace(*w.City) == "" {
		return nil, fmt.Errorf("%w: missing city", ErrShape)
	}
	center, err := w.Coordinates.toCoordinates("coordinates")
	if err != nil {
		return nil, err
	}
	if w.Places == nil {
		return nil, fmt.Errorf("%w: missing places", ErrShape)
	}
	if w.Itinerary == nil {
		return nil, fmt.Errorf("%w: missing itinerary", ErrShape)
	}
	if w.Themes == nil {
		return nil, fmt.Errorf("%w: missing themes", ErrShape)
	}

	places := make([]Place, 0, len(*w.Places))
	for i, wp := range *w.Places {
		p, err := wp.toPlace(i)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}

	itinerary, err := toItinerary(*w.Itinerary)
	if err != nil {
		return nil, err
	}

	return &TravelPackage{
		City:        *w.City,
		Country:     deref(w.Country),
		Description: deref(w.Description),
		Duration:    deref(w.Duration),
		Cost:        deref(w.Cost),
		Coordinates: center,
		Places:      places,
		Itinerary:   itinerary,
		BestTime:    deref(w.BestTime),
		Themes:      append([]string{}, (*w.Themes)...),
	}, nil
}

// DecodePlaces parses a list of discovered places. A JSON null is a shape
// error; an empty array is a valid, empty result.
func DecodePlaces(data []byte) ([]Place, error) {
	var w *[]wirePlace
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: missing places array", ErrShape)
	}
	places := make([]Place, 0, len(*w))
	for i, wp := range *w {
		p, err := wp.toPlace(i)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, nil
}

// DecodeItinerary parses a bare itinerary array. Null is a shape error; every
// entry needs a positive integer day.
func DecodeItinerary(data []byte) ([]ItineraryItem, error) {
	var w *[]wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: missing itinerary array", ErrShape)
	}
	return toItinerary(*w)
}

func toItinerary(items []wireItem) ([]ItineraryItem, error) {
	itinerary := make([]ItineraryItem, 0, len(items))
	for i, wi := range items {
		if wi.Day == nil || *wi.Day < 1 || *wi.Day != float64(int(*wi.Day)) {
			return nil, fmt.Errorf("%w: itinerary[%d] has no positive integer day", ErrShape, i)
		}
		itinerary = append(itinerary, ItineraryItem{Day: int(*wi.Day), Activity: deref(wi.Activity)})
	}
	return itinerary, nil
}

func (wp wirePlace) toPlace(i int) (Place, error) {
	if wp.Name == nil || strings.TrimSpace(*wp.Name) == "" {
		return Place{}, fmt.Errorf("%w: places[%d] has no name", ErrShape, i)
	}
	c, err := wp.Coordinates.toCoordinates(fmt.Sprintf("places[%d].coordinates", i))
	if err != nil {
		return Place{}, err
	}
	return Place{Name: *wp.Name, Description: deref(wp.Description), Coordinates: c}, nil
}

func (wc *wireCoordinates) toCoordinates(field string) (Coordinates, error) {
	if wc == nil || wc.Lat == nil || wc.Lng == nil {
		return Coordinates{}, fmt.Errorf("%w: missing %s", ErrShape, field)
	}
	if *wc.Lat < -90 || *wc.Lat > 90 || *wc.Lng < -180 || *wc.Lng > 180 {
		return Coordinates{}, fmt.Errorf("%w: %s out of range", ErrShape, field)
	}
	return Coordinates{Lat: *wc.Lat, Lng: *wc.Lng}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
