// Package mapview keeps map overlay markers in step with the travel package
// and the current set of discovered places.
package mapview

import "wanderplan/models"

// MapID identifies a live map instance inside a provider.
type MapID string

// MarkerID identifies a live marker inside a map.
type MarkerID string

// MarkerStyle distinguishes canonical markers from discovered ones.
type MarkerStyle int

const (
	StyleCanonical MarkerStyle = iota
	StyleDiscovered
)

func (s MarkerStyle) String() string {
	if s == StyleDiscovered {
		return "discovered"
	}
	return "canonical"
}

// Label is the popup bound to a marker.
type Label struct {
	Title string
	Body  string
}

// MarkerSpec describes a marker to add.
type MarkerSpec struct {
	Position  models.Coordinates
	Label     Label
	Style     MarkerStyle
	OpenLabel bool
}

// MapProvider is the map library capability the synchronizer drives. Zoom
// callbacks may fire synchronously from FlyTo or from any goroutine when the
// user zooms.
type MapProvider interface {
	CreateMap(target string, center models.Coordinates, zoom int) (MapID, error)
	AddMarker(m MapID, spec MarkerSpec) (MarkerID, error)
	RemoveMarker(m MapID, id MarkerID)
	FlyTo(m MapID, center models.Coordinates, zoom int)
	OnZoomChange(m MapID, fn func(zoom float64))
	Center(m MapID) models.Coordinates
	RemoveMap(m MapID)
}
