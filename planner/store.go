package planner

import (
	"context"
	"errors"
	"sync"

	"github.com/samber/lo"

	"wanderplan/models"
)

// ErrTripNotFound is returned when a saved trip is looked up by a city that
// is not saved.
var ErrTripNotFound = errors.New("saved trip not found")

// Store holds saved trips keyed by exact city name. Implementations keep
// their own copies of the packages they are given.
type Store interface {
	List(ctx context.Context) ([]models.TravelPackage, error)
	Get(ctx context.Context, city string) (*models.TravelPackage, error)
	Contains(ctx context.Context, city string) (bool, error)
	// Toggle removes the trip when saved and adds it otherwise. It reports
	// whether the trip is saved afterwards.
	Toggle(ctx context.Context, pkg *models.TravelPackage) (bool, error)
	// ReplaceItinerary overwrites a saved trip's itinerary. ErrTripNotFound
	// when the city is not saved.
	ReplaceItinerary(ctx context.Context, city string, items []models.ItineraryItem) error
	// Remove deletes by city; removing an absent city is not an error.
	Remove(ctx context.Context, city string) error
}

// MemoryStore keeps saved trips in process memory in insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	trips []*models.TravelPackage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) List(_ context.Context) ([]models.TravelPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Map(m.trips, func(t *models.TravelPackage, _ int) models.TravelPackage {
		return *t.Clone()
	}), nil
}

func (m *MemoryStore) Get(_ context.Context, city string) (*models.TravelPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := lo.Find(m.trips, func(t *models.TravelPackage) bool { return t.City == city })
	if !ok {
		return nil, ErrTripNotFound
	}
	return t.Clone(), nil
}

func (m *MemoryStore) Contains(_ context.Context, city string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.containsLocked(city), nil
}

func (m *MemoryStore) containsLocked(city string) bool {
	return lo.ContainsBy(m.trips, func(t *models.TravelPackage) bool { return t.City == city })
}

func (m *MemoryStore) Toggle(_ context.Context, pkg *models.TravelPackage) (bool, error) {
	if pkg == nil {
		return false, errors.New("nil package")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.containsLocked(pkg.City) {
		m.trips = lo.Reject(m.trips, func(t *models.TravelPackage, _ int) bool { return t.City == pkg.City })
		return false, nil
	}
	m.trips = append(m.trips, pkg.Clone())
	return true, nil
}

func (m *MemoryStore) ReplaceItinerary(_ context.Context, city string, items []models.ItineraryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := lo.Find(m.trips, func(t *models.TravelPackage) bool { return t.City == city })
	if !ok {
		return ErrTripNotFound
	}
	t.Itinerary = models.CloneItinerary(items)
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, city string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = lo.Reject(m.trips, func(t *models.TravelPackage, _ int) bool { return t.City == city })
	return nil
}
