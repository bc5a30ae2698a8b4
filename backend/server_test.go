package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderplan/config"
	"wanderplan/models"
	"wanderplan/planner"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	mu          sync.Mutex
	tripCalls   int
	nearbyCalls int
	lastLat     float64
	lastLng     float64
	err         error
	nearby      []models.Place
}

func (f *fakeGenerator) GeneratePackage(_ context.Context, city string) (*models.TravelPackage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tripCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.TravelPackage{
		City:        city,
		Country:     "Italy",
		Coordinates: models.Coordinates{Lat: 41.9, Lng: 12.5},
		Places:      []models.Place{{Name: "Colosseum", Coordinates: models.Coordinates{Lat: 41.89, Lng: 12.49}}},
		Itinerary:   []models.ItineraryItem{{Day: 1, Activity: "Arrive"}},
		Themes:      []string{"history"},
	}, nil
}

func (f *fakeGenerator) DiscoverNearby(_ context.Context, lat, lng float64, _ string) ([]models.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nearbyCalls++
	f.lastLat, f.lastLng = lat, lng
	if f.err != nil {
		return nil, f.err
	}
	return f.nearby, nil
}

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		Addr:          ":0",
		AllowOrigins:  []string{"*"},
		RatePerMinute: 600,
		Burst:         100,
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestGenerateTrip(t *testing.T) {
	gen := &fakeGenerator{}
	h := New(testConfig(), gen, nil, nil).Handler()

	w := do(t, h, "POST", "/api/trip", `{"city":"Rome"}`)
	require.Equal(t, http.StatusOK, w.Code)
	pkg := decode[models.TravelPackage](t, w)
	assert.Equal(t, "Rome", pkg.City)
	assert.Len(t, pkg.Places, 1)

	for _, body := range []string{`{}`, `{"city":"  "}`, `not json`} {
		w = do(t, h, "POST", "/api/trip", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, decode[map[string]string](t, w), "error")
	}
	assert.Equal(t, 1, gen.tripCalls)
}

func TestGenerateTripFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	h := New(testConfig(), gen, nil, nil).Handler()

	w := do(t, h, "POST", "/api/trip", `{"city":"Rome"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode[map[string]string](t, w)
	assert.NotContains(t, body["error"], "quota")

	h = New(testConfig(), nil, nil, nil).Handler()
	w = do(t, h, "POST", "/api/trip", `{"city":"Rome"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDiscoverNearby(t *testing.T) {
	gen := &fakeGenerator{nearby: []models.Place{
		{Name: "Cafe", Description: "Coffee", Coordinates: models.Coordinates{Lat: 0.01, Lng: 0.02}},
	}}
	h := New(testConfig(), gen, nil, nil).Handler()

	w := do(t, h, "POST", "/api/nearby", `{"lat":0,"lng":0,"city":"Null Island"}`)
	require.Equal(t, http.StatusOK, w.Code)
	places := decode[[]models.Place](t, w)
	require.Len(t, places, 1)
	assert.Equal(t, "Cafe", places[0].Name)
	assert.Equal(t, 0.0, gen.lastLat)

	for _, body := range []string{
		`{"lng":1,"city":"Rome"}`,
		`{"lat":1,"city":"Rome"}`,
		`{"lat":null,"lng":1,"city":"Rome"}`,
		`{"lat":1,"lng":1}`,
	} {
		w = do(t, h, "POST", "/api/nearby", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Equal(t, 1, gen.nearbyCalls)
}

func TestDiscoverNearbyEmptyIsArray(t *testing.T) {
	h := New(testConfig(), &fakeGenerator{}, nil, nil).Handler()

	w := do(t, h, "POST", "/api/nearby", `{"lat":41.9,"lng":12.5,"city":"Rome"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestResponseCache(t *testing.T) {
	cfg := testConfig()
	cfg.CacheTTL = time.Minute
	gen := &fakeGenerator{nearby: []models.Place{{Name: "Cafe"}}}
	h := New(cfg, gen, nil, nil).Handler()

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, do(t, h, "POST", "/api/trip", `{"city":"Rome"}`).Code)
		require.Equal(t, http.StatusOK, do(t, h, "POST", "/api/nearby", `{"lat":41.9,"lng":12.5,"city":"Rome"}`).Code)
	}
	assert.Equal(t, 1, gen.tripCalls)
	assert.Equal(t, 1, gen.nearbyCalls)

	require.Equal(t, http.StatusOK, do(t, h, "POST", "/api/trip", `{"city":"Paris"}`).Code)
	assert.Equal(t, 2, gen.tripCalls)
}

func TestFailuresAreNotCached(t *testing.T) {
	cfg := testConfig()
	cfg.CacheTTL = time.Minute
	gen := &fakeGenerator{err: errors.New("down")}
	h := New(cfg, gen, nil, nil).Handler()

	do(t, h, "POST", "/api/trip", `{"city":"Rome"}`)
	gen.err = nil
	w := do(t, h, "POST", "/api/trip", `{"city":"Rome"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, gen.tripCalls)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RatePerMinute = 1
	cfg.Burst = 2
	h := New(cfg, &fakeGenerator{}, nil, nil).Handler()

	assert.Equal(t, http.StatusOK, do(t, h, "POST", "/api/trip", `{"city":"Rome"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, h, "POST", "/api/trip", `{"city":"Rome"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, "POST", "/api/trip", `{"city":"Rome"}`).Code)

	// saved trips are not rate limited
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/saved", "").Code)
}

func TestSavedTrips(t *testing.T) {
	store := planner.NewMemoryStore()
	h := New(testConfig(), nil, store, nil).Handler()
	rome := `{"city":"Rome","country":"Italy","coordinates":{"lat":41.9,"lng":12.5},
		"places":[],"itinerary":[{"day":1,"activity":"Arrive"}],"themes":[]}`

	w := do(t, h, "GET", "/api/saved", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, h, "POST", "/api/saved/toggle", rome)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"saved":true}`, w.Body.String())

	w = do(t, h, "GET", "/api/saved/Rome", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Italy", decode[models.TravelPackage](t, w).Country)

	w = do(t, h, "PUT", "/api/saved/Rome/itinerary", `[{"day":1,"activity":"Forum"},{"day":2,"activity":"Vatican"}]`)
	require.Equal(t, http.StatusOK, w.Code)
	got, err := store.Get(context.Background(), "Rome")
	require.NoError(t, err)
	assert.Equal(t, []models.ItineraryItem{{Day: 1, Activity: "Forum"}, {Day: 2, Activity: "Vatican"}}, got.Itinerary)

	w = do(t, h, "PUT", "/api/saved/Rome/itinerary", `[{"day":0,"activity":"x"}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, "PUT", "/api/saved/Paris/itinerary", `[]`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, h, "GET", "/api/saved/rome", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "POST", "/api/saved/toggle", rome)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"saved":false}`, w.Body.String())

	w = do(t, h, "POST", "/api/saved/toggle", `{"country":"Italy"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "DELETE", "/api/saved/Rome", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func savedDays(t *testing.T, store planner.Store, city string) []int {
	t.Helper()
	trip, err := store.Get(context.Background(), city)
	require.NoError(t, err)
	days := make([]int, len(trip.Itinerary))
	for i, it := range trip.Itinerary {
		days[i] = it.Day
	}
	return days
}

func TestSavedItineraryStaysSequential(t *testing.T) {
	store := planner.NewMemoryStore()
	h := New(testConfig(), nil, store, nil).Handler()

	for _, body := range []string{
		`{"city":"Rome","coordinates":{"lat":41.9,"lng":12.5},"places":[],"themes":[],
			"itinerary":[{"day":4,"activity":"a"},{"day":4,"activity":"b"}]}`,
		`{"city":"Rome","coordinates":{"lat":41.9,"lng":12.5},"places":[],"themes":[],
			"itinerary":[{"day":2,"activity":"a"}]}`,
		`{"city":"Rome","places":[],"themes":[],"itinerary":[]}`,
		`{"city":"Rome","coordinates":{"lat":41.9,"lng":12.5},"themes":[],"itinerary":[]}`,
		`{"city":"Rome","coordinates":{"lat":41.9,"lng":12.5},"places":[{"description":"x"}],"themes":[],"itinerary":[]}`,
	} {
		w := do(t, h, "POST", "/api/saved/toggle", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	ok, err := store.Contains(context.Background(), "Rome")
	require.NoError(t, err)
	assert.False(t, ok)

	w := do(t, h, "POST", "/api/saved/toggle", `{"city":"Rome","coordinates":{"lat":41.9,"lng":12.5},
		"places":[],"themes":[],"itinerary":[{"day":1,"activity":"Arrive"},{"day":2,"activity":"Forum"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{1, 2}, savedDays(t, store, "Rome"))

	w = do(t, h, "PUT", "/api/saved/Rome/itinerary",
		`[{"day":3,"activity":"c"},{"day":3,"activity":"d"},{"day":9,"activity":"e"}]`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{1, 2, 3}, savedDays(t, store, "Rome"))
	trip, err := store.Get(context.Background(), "Rome")
	require.NoError(t, err)
	assert.Equal(t, "c", trip.Itinerary[0].Activity)
	assert.Equal(t, "e", trip.Itinerary[2].Activity)

	for _, body := range []string{`null`, `[{"activity":"x"}]`, `[{"day":1.5}]`, `{"day":1}`} {
		w = do(t, h, "PUT", "/api/saved/Rome/itinerary", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Equal(t, []int{1, 2, 3}, savedDays(t, store, "Rome"))
}

func TestBadRequestMessages(t *testing.T) {
	h := New(testConfig(), &fakeGenerator{}, nil, nil).Handler()

	w := do(t, h, "POST", "/api/trip", `{}`)
	assert.Equal(t, "City name is required", decode[map[string]string](t, w)["error"])

	w = do(t, h, "POST", "/api/nearby", `{"city":"Rome"}`)
	assert.Equal(t, "Coordinates and city are required", decode[map[string]string](t, w)["error"])
}

func TestHealthAndRequestID(t *testing.T) {
	h := New(testConfig(), nil, nil, nil).Handler()

	w := do(t, h, "GET", "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	r := httptest.NewRequest("GET", "/api/health", nil)
	r.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}
