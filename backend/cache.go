package backend

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"wanderplan/models"
)

// responseCache remembers generated packages and nearby results. A nil
// *responseCache is a disabled cache.
type responseCache struct {
	c *cache.Cache
}

func newResponseCache(ttl time.Duration) *responseCache {
	if ttl <= 0 {
		return nil
	}
	return &responseCache{c: cache.New(ttl, 2*ttl)}
}

func tripKey(city string) string {
	return "trip:" + strings.TrimSpace(city)
}

// nearbyKey rounds to about 10m so small pans share an entry.
func nearbyKey(lat, lng float64, city string) string {
	return fmt.Sprintf("nearby:%.4f,%.4f:%s", lat, lng, strings.TrimSpace(city))
}

func (rc *responseCache) trip(city string) (*models.TravelPackage, bool) {
	if rc == nil {
		return nil, false
	}
	v, ok := rc.c.Get(tripKey(city))
	if !ok {
		return nil, false
	}
	return v.(*models.TravelPackage).Clone(), true
}

func (rc *responseCache) putTrip(city string, pkg *models.TravelPackage) {
	if rc == nil {
		return
	}
	rc.c.Set(tripKey(city), pkg.Clone(), cache.DefaultExpiration)
}

func (rc *responseCache) nearby(lat, lng float64, city string) ([]models.Place, bool) {
	if rc == nil {
		return nil, false
	}
	v, ok := rc.c.Get(nearbyKey(lat, lng, city))
	if !ok {
		return nil, false
	}
	return append([]models.Place{}, v.([]models.Place)...), true
}

func (rc *responseCache) putNearby(lat, lng float64, city string, places []models.Place) {
	if rc == nil {
		return
	}
	rc.c.Set(nearbyKey(lat, lng, city), append([]models.Place{}, places...), cache.DefaultExpiration)
}
