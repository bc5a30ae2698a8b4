// Package explore ties acquisition, the map synchronizer and the itinerary
// reconciler into one destination view.
package explore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"wanderplan/mapview"
	"wanderplan/models"
	"wanderplan/planner"
)

var (
	ErrNotFound          = errors.New("no package for destination")
	ErrSuperseded        = errors.New("result superseded by a newer request")
	ErrNoPackage         = errors.New("no destination open")
	ErrDiscoveryInFlight = errors.New("nearby discovery already running")
	ErrNoSuchPlace       = errors.New("no place at index")
)

// Acquirer fetches packages and nearby places. *acquire.Router satisfies it.
type Acquirer interface {
	GeneratePackage(ctx context.Context, city string) *models.TravelPackage
	DiscoverNearby(ctx context.Context, lat, lng float64, city string) []models.Place
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusNotFound:
		return "not found"
	}
	return "idle"
}

// View shows one destination at a time. Each Open bumps an epoch; any
// acquisition result that comes back under an older epoch is dropped.
// A View is safe for concurrent use.
type View struct {
	acq      Acquirer
	provider mapview.MapProvider
	target   string
	log      *zap.Logger
	rec      *planner.Reconciler

	mu          sync.Mutex
	epoch       uint64
	status      Status
	pkg         *models.TravelPackage
	discovered  []models.Place
	discovering bool
	mapSync     *mapview.Synchronizer
}

// NewView returns an idle view rendering into target on provider.
func NewView(acq Acquirer, provider mapview.MapProvider, target string, store planner.Store, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	return &View{
		acq:      acq,
		provider: provider,
		target:   target,
		log:      log,
		rec:      planner.NewReconciler(store),
	}
}

// Open acquires the package for city and mounts a fresh map for it. The
// previous destination is torn down first.
func (v *View) Open(ctx context.Context, city string) error {
	v.mu.Lock()
	epoch := v.resetLocked(StatusLoading)
	v.mu.Unlock()

	pkg := v.acq.GeneratePackage(ctx, city)

	v.mu.Lock()
	defer v.mu.Unlock()
	if epoch != v.epoch {
		v.log.Debug("dropping stale package", zap.String("city", city))
		return ErrSuperseded
	}
	if pkg == nil {
		v.status = StatusNotFound
		return fmt.Errorf("%w: %s", ErrNotFound, city)
	}
	return v.showLocked(pkg)
}

// OpenSaved shows an already known package without acquiring anything.
func (v *View) OpenSaved(pkg *models.TravelPackage) error {
	if pkg == nil {
		return ErrNoPackage
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resetLocked(StatusLoading)
	return v.showLocked(pkg.Clone())
}

func (v *View) resetLocked(status Status) uint64 {
	v.epoch++
	if v.mapSync != nil {
		v.mapSync.Dispose()
		v.mapSync = nil
	}
	v.rec.CancelEdit()
	v.pkg = nil
	v.discovered = nil
	v.discovering = false
	v.status = status
	return v.epoch
}

func (v *View) showLocked(pkg *models.TravelPackage) error {
	s := mapview.NewSynchronizer(v.provider, v.log)
	if err := s.Mount(v.target, pkg); err != nil {
		v.status = StatusNotFound
		return err
	}
	v.mapSync = s
	v.pkg = pkg
	v.discovered = []models.Place{}
	v.status = StatusReady
	v.log.Info("destination ready", zap.String("city", pkg.City), zap.Int("places", len(pkg.Places)))
	return nil
}

// DiscoverNearby queries places around the current viewport center and
// replaces the discovered set with the result.
func (v *View) DiscoverNearby(ctx context.Context) ([]models.Place, error) {
	v.mu.Lock()
	if v.status != StatusReady {
		v.mu.Unlock()
		return nil, ErrNoPackage
	}
	if v.discovering {
		v.mu.Unlock()
		return nil, ErrDiscoveryInFlight
	}
	center, ok := v.mapSync.Center()
	if !ok {
		v.mu.Unlock()
		return nil, ErrNoPackage
	}
	v.discovering = true
	epoch, city := v.epoch, v.pkg.City
	v.mu.Unlock()

	places := v.acq.DiscoverNearby(ctx, center.Lat, center.Lng, city)

	v.mu.Lock()
	defer v.mu.Unlock()
	if epoch != v.epoch {
		return nil, ErrSuperseded
	}
	v.discovering = false
	if places == nil {
		places = []models.Place{}
	}
	v.discovered = places
	v.mapSync.SetDiscovered(places)
	return clonePlaces(places), nil
}

// ClearDiscovered empties the discovered set and its markers.
func (v *View) ClearDiscovered() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status != StatusReady {
		return
	}
	v.discovered = []models.Place{}
	v.mapSync.SetDiscovered(nil)
}

func (v *View) Recenter() {
	if s := v.synchronizer(); s != nil {
		s.Recenter()
	}
}

func (v *View) FlyTo(lat, lng float64) {
	if s := v.synchronizer(); s != nil {
		s.FlyTo(lat, lng)
	}
}

// FocusPlace flies to the package's i-th place.
func (v *View) FocusPlace(i int) error {
	v.mu.Lock()
	if v.pkg == nil {
		v.mu.Unlock()
		return ErrNoPackage
	}
	p, err := placeAt(v.pkg.Places, i)
	s := v.mapSync
	v.mu.Unlock()
	if err != nil {
		return err
	}
	s.FlyTo(p.Coordinates.Lat, p.Coordinates.Lng)
	return nil
}

// FocusDiscovered flies to the i-th discovered place.
func (v *View) FocusDiscovered(i int) error {
	v.mu.Lock()
	if v.pkg == nil {
		v.mu.Unlock()
		return ErrNoPackage
	}
	p, err := placeAt(v.discovered, i)
	s := v.mapSync
	v.mu.Unlock()
	if err != nil {
		return err
	}
	s.FlyTo(p.Coordinates.Lat, p.Coordinates.Lng)
	return nil
}

func placeAt(places []models.Place, i int) (models.Place, error) {
	if i < 0 || i >= len(places) {
		return models.Place{}, fmt.Errorf("%w: %d", ErrNoSuchPlace, i)
	}
	return places[i], nil
}

func (v *View) synchronizer() *mapview.Synchronizer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mapSync
}

func (v *View) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Discovering reports whether a nearby query is pending.
func (v *View) Discovering() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.discovering
}

// Package returns a copy of the open package, or nil.
func (v *View) Package() *models.TravelPackage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pkg.Clone()
}

func (v *View) Discovered() []models.Place {
	v.mu.Lock()
	defer v.mu.Unlock()
	return clonePlaces(v.discovered)
}

// Zoom is the mirrored zoom level, 0 when nothing is mounted.
func (v *View) Zoom() int {
	if s := v.synchronizer(); s != nil {
		return s.Zoom()
	}
	return 0
}

// MapID is the live map of the open destination.
func (v *View) MapID() mapview.MapID {
	if s := v.synchronizer(); s != nil {
		return s.MapID()
	}
	return ""
}

// ========== itinerary editing ==========

func (v *View) BeginEdit() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pkg == nil {
		return ErrNoPackage
	}
	return v.rec.BeginEdit(v.pkg)
}

func (v *View) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rec.CancelEdit()
}

func (v *View) ChangeActivity(i int, text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rec.ChangeActivity(i, text)
}

func (v *View) AddDay() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rec.AddDay()
}

func (v *View) RemoveDay(i int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rec.RemoveDay(i)
}

// CommitEdit writes the draft to the open package. Markers are left alone.
func (v *View) CommitEdit(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pkg == nil {
		return ErrNoPackage
	}
	return v.rec.CommitEdit(ctx, v.pkg)
}

func (v *View) Editing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rec.Editing()
}

func (v *View) Draft() []models.ItineraryItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rec.Draft()
}

// ========== saved trips ==========

// ToggleSave saves or unsaves the open package and reports the new state.
func (v *View) ToggleSave(ctx context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pkg == nil {
		return false, ErrNoPackage
	}
	return v.rec.ToggleSave(ctx, v.pkg)
}

func (v *View) IsSaved(ctx context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pkg == nil {
		return false, nil
	}
	return v.rec.IsSaved(ctx, v.pkg.City)
}

// Close disposes the map and drops any pending results.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resetLocked(StatusIdle)
}

func clonePlaces(in []models.Place) []models.Place {
	if in == nil {
		return nil
	}
	out := make([]models.Place, len(in))
	copy(out, in)
	return out
}
