package mapview

import (
	"errors"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"wanderplan/models"
)

const (
	// InitialZoom is used at mount and by Recenter.
	InitialZoom = 13
	// FocusZoom is used when flying to a single place.
	FocusZoom = 16
)

// ErrNoTarget is returned by Mount when there is nowhere to render.
var ErrNoTarget = errors.New("no render target")

// State of a synchronizer.
type State int

const (
	Uninitialized State = iota
	Ready
	Disposed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Disposed:
		return "disposed"
	}
	return "uninitialized"
}

// Synchronizer owns one map instance and its markers. Canonical markers are a
// snapshot of the package taken once when entering Ready; they are never
// added, removed or updated afterwards. Discovered markers are torn down and
// rebuilt on every SetDiscovered call.
type Synchronizer struct {
	provider MapProvider
	log      *zap.Logger

	mu         sync.Mutex
	state      State
	mapID      MapID
	home       models.Coordinates
	canonical  []MarkerID
	discovered []MarkerID

	zoom     atomic.Int64
	onZoomMu sync.Mutex
	onZoom   func(int)
}

// NewSynchronizer returns an Uninitialized synchronizer.
func NewSynchronizer(provider MapProvider, log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{provider: provider, log: log}
}

// Mount creates the map for pkg on target, adds one canonical marker per
// place and starts mirroring zoom. Mount is a no-op unless the synchronizer
// is Uninitialized.
func (s *Synchronizer) Mount(target string, pkg *models.TravelPackage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Uninitialized || pkg == nil {
		return nil
	}
	if target == "" || s.provider == nil {
		return ErrNoTarget
	}

	id, err := s.provider.CreateMap(target, pkg.Coordinates, InitialZoom)
	if err != nil {
		return err
	}
	s.zoom.Store(InitialZoom)

	markers := make([]MarkerID, 0, len(pkg.Places))
	for _, p := range pkg.Places {
		mid, err := s.provider.AddMarker(id, MarkerSpec{
			Position: p.Coordinates,
			Label:    Label{Title: p.Name, Body: p.Description},
			Style:    StyleCanonical,
		})
		if err != nil {
			for _, m := range markers {
				s.provider.RemoveMarker(id, m)
			}
			s.provider.RemoveMap(id)
			return err
		}
		markers = append(markers, mid)
	}

	s.provider.OnZoomChange(id, s.zoomChanged)

	s.mapID = id
	s.home = pkg.Coordinates
	s.canonical = markers
	s.state = Ready
	s.log.Debug("map mounted", zap.String("map", string(id)), zap.Int("markers", len(markers)))
	return nil
}

func (s *Synchronizer) zoomChanged(z float64) {
	rounded := int(math.Round(z))
	s.zoom.Store(int64(rounded))

	s.onZoomMu.Lock()
	fn := s.onZoom
	s.onZoomMu.Unlock()
	if fn != nil {
		fn(rounded)
	}
}

// OnZoom registers a listener for mirrored zoom changes.
func (s *Synchronizer) OnZoom(fn func(zoom int)) {
	s.onZoomMu.Lock()
	s.onZoom = fn
	s.onZoomMu.Unlock()
}

// Zoom is the last zoom level reported by the map, rounded.
func (s *Synchronizer) Zoom() int {
	return int(s.zoom.Load())
}

// State reports the lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Center reads the live viewport center. ok is false unless Ready.
func (s *Synchronizer) Center() (c models.Coordinates, ok bool) {
	id, ready := s.ready()
	if !ready {
		return models.Coordinates{}, false
	}
	return s.provider.Center(id), true
}

// Recenter flies back to the package coordinates at the initial zoom.
func (s *Synchronizer) Recenter() {
	s.mu.Lock()
	id, home, ready := s.mapID, s.home, s.state == Ready
	s.mu.Unlock()
	if ready {
		s.provider.FlyTo(id, home, InitialZoom)
	}
}

// FlyTo animates the viewport to lat/lng at the focus zoom.
func (s *Synchronizer) FlyTo(lat, lng float64) {
	if id, ready := s.ready(); ready {
		s.provider.FlyTo(id, models.Coordinates{Lat: lat, Lng: lng}, FocusZoom)
	}
}

// SetDiscovered replaces every discovered marker with one per place. Each new
// marker opens its label; with several places the last one created stays open.
func (s *Synchronizer) SetDiscovered(places []models.Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return
	}

	for _, m := range s.discovered {
		s.provider.RemoveMarker(s.mapID, m)
	}
	s.discovered = nil

	for _, p := range places {
		mid, err := s.provider.AddMarker(s.mapID, MarkerSpec{
			Position:  p.Coordinates,
			Label:     Label{Title: p.Name, Body: p.Description},
			Style:     StyleDiscovered,
			OpenLabel: true,
		})
		if err != nil {
			s.log.Warn("discovered marker not added", zap.String("place", p.Name), zap.Error(err))
			continue
		}
		s.discovered = append(s.discovered, mid)
	}
}

// Dispose removes the map and forgets every marker. Further calls are no-ops.
func (s *Synchronizer) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		s.state = Disposed
		return
	}
	s.provider.RemoveMap(s.mapID)
	s.mapID = ""
	s.canonical = nil
	s.discovered = nil
	s.state = Disposed
}

// CanonicalMarkers returns the ids of the canonical markers.
func (s *Synchronizer) CanonicalMarkers() []MarkerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.canonical)
}

// DiscoveredMarkers returns the ids of the current discovered markers.
func (s *Synchronizer) DiscoveredMarkers() []MarkerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.discovered)
}

// MapID returns the live map id, or "" unless Ready.
func (s *Synchronizer) MapID() MapID {
	id, _ := s.ready()
	return id
}

func (s *Synchronizer) ready() (MapID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapID, s.state == Ready
}
