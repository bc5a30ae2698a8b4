package mapview

import (
	"fmt"
	"sort"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"wanderplan/models"
)

// Marker is a snapshot of a marker held by the headless provider.
type Marker struct {
	ID MarkerID
	MarkerSpec
	seq int
}

type headlessMap struct {
	target  string
	center  models.Coordinates
	zoom    float64
	markers map[MarkerID]*Marker
	openID  MarkerID
	zoomFns []func(float64)
}

// Headless is an in-memory MapProvider. It keeps viewport and marker state so
// tests and the CLI can drive the synchronizer without a browser, and it can
// simulate user panning and zooming.
type Headless struct {
	mu      sync.Mutex
	maps    map[MapID]*headlessMap
	nextMap int
	nextMkr int
	flights int
}

func NewHeadless() *Headless {
	return &Headless{maps: make(map[MapID]*headlessMap)}
}

func (h *Headless) CreateMap(target string, center models.Coordinates, zoom int) (MapID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, m := range h.maps {
		if m.target == target {
			return "", fmt.Errorf("target %q already holds a map", target)
		}
	}
	h.nextMap++
	id := MapID(fmt.Sprintf("map-%d", h.nextMap))
	h.maps[id] = &headlessMap{
		target:  target,
		center:  center,
		zoom:    float64(zoom),
		markers: make(map[MarkerID]*Marker),
	}
	return id, nil
}

func (h *Headless) AddMarker(id MapID, spec MarkerSpec) (MarkerID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.maps[id]
	if !ok {
		return "", fmt.Errorf("unknown map %q", id)
	}
	h.nextMkr++
	mid := MarkerID(fmt.Sprintf("marker-%d", h.nextMkr))
	m.markers[mid] = &Marker{ID: mid, MarkerSpec: spec, seq: h.nextMkr}
	if spec.OpenLabel {
		m.openID = mid
	}
	return mid, nil
}

func (h *Headless) RemoveMarker(id MapID, mid MarkerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.maps[id]; ok {
		delete(m.markers, mid)
		if m.openID == mid {
			m.openID = ""
		}
	}
}

// FlyTo jumps straight to the destination and reports the new zoom.
func (h *Headless) FlyTo(id MapID, center models.Coordinates, zoom int) {
	h.mu.Lock()
	m, ok := h.maps[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	h.flights++
	m.center = center
	m.zoom = float64(zoom)
	fns := append([]func(float64){}, m.zoomFns...)
	h.mu.Unlock()

	for _, fn := range fns {
		fn(float64(zoom))
	}
}

func (h *Headless) OnZoomChange(id MapID, fn func(float64)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.maps[id]; ok {
		m.zoomFns = append(m.zoomFns, fn)
	}
}

func (h *Headless) Center(id MapID) models.Coordinates {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.maps[id]; ok {
		return m.center
	}
	return models.Coordinates{}
}

func (h *Headless) RemoveMap(id MapID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.maps, id)
}

// Pan moves the viewport as a user drag would.
func (h *Headless) Pan(id MapID, center models.Coordinates) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.maps[id]; ok {
		m.center = center
	}
}

// SetZoom changes the zoom as the user's scroll wheel would.
func (h *Headless) SetZoom(id MapID, zoom float64) {
	h.mu.Lock()
	m, ok := h.maps[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	m.zoom = zoom
	fns := append([]func(float64){}, m.zoomFns...)
	h.mu.Unlock()

	for _, fn := range fns {
		fn(zoom)
	}
}

// Maps returns the number of live maps.
func (h *Headless) Maps() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.maps)
}

// Flights counts FlyTo calls that hit a live map.
func (h *Headless) Flights() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.flights
}

// Viewport returns the current center and zoom of a map.
func (h *Headless) Viewport(id MapID) (models.Coordinates, float64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.maps[id]
	if !ok {
		return models.Coordinates{}, 0, false
	}
	return m.center, m.zoom, true
}

// Markers lists the live markers of a map in creation order.
func (h *Headless) Markers(id MapID) []Marker {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.maps[id]
	if !ok {
		return nil
	}
	out := make([]Marker, 0, len(m.markers))
	for _, mk := range m.markers {
		out = append(out, *mk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// OpenLabel returns the marker whose label is currently open, if any.
func (h *Headless) OpenLabel(id MapID) (MarkerID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.maps[id]
	if !ok || m.openID == "" {
		return "", false
	}
	return m.openID, true
}

// GeoJSON renders the live markers of a map as a feature collection.
func (h *Headless) GeoJSON(id MapID) ([]byte, error) {
	markers := h.Markers(id)
	fc := geojson.NewFeatureCollection()
	for _, mk := range markers {
		f := geojson.NewFeature(orb.Point{mk.Position.Lng, mk.Position.Lat})
		f.Properties["name"] = mk.Label.Title
		f.Properties["description"] = mk.Label.Body
		f.Properties["kind"] = mk.Style.String()
		fc.Append(f)
	}
	return fc.MarshalJSON()
}
