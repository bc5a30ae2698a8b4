package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderplan/models"
)

func samplePackage(city string, days ...string) *models.TravelPackage {
	items := make([]models.ItineraryItem, len(days))
	for i, d := range days {
		items[i] = models.ItineraryItem{Day: i + 1, Activity: d}
	}
	return &models.TravelPackage{
		City:        city,
		Country:     "Italy",
		Coordinates: models.Coordinates{Lat: 41.9, Lng: 12.5},
		Places:      []models.Place{},
		Itinerary:   items,
		Themes:      []string{"history"},
	}
}

func days(items []models.ItineraryItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Day
	}
	return out
}

func TestEditRequiresBegin(t *testing.T) {
	r := NewReconciler(NewMemoryStore())

	assert.ErrorIs(t, r.AddDay(), ErrNotEditing)
	assert.ErrorIs(t, r.RemoveDay(0), ErrNotEditing)
	assert.ErrorIs(t, r.ChangeActivity(0, "x"), ErrNotEditing)
	assert.ErrorIs(t, r.CommitEdit(context.Background(), samplePackage("Rome")), ErrNotEditing)
	assert.False(t, r.Editing())
}

func TestRemoveDayRenumbers(t *testing.T) {
	r := NewReconciler(nil)
	pkg := samplePackage("Rome", "Arrive", "Colosseum", "Vatican", "Depart")
	require.NoError(t, r.BeginEdit(pkg))

	require.NoError(t, r.RemoveDay(1))
	draft := r.Draft()
	assert.Equal(t, []int{1, 2, 3}, days(draft))
	assert.Equal(t, "Vatican", draft[1].Activity)

	require.NoError(t, r.RemoveDay(0))
	require.NoError(t, r.RemoveDay(0))
	require.NoError(t, r.RemoveDay(0))
	assert.Empty(t, r.Draft())
	assert.ErrorIs(t, r.RemoveDay(0), ErrIndexOutOfRange)

	// the package is untouched until commit
	assert.Len(t, pkg.Itinerary, 4)
}

func TestAddDayAppendsDefault(t *testing.T) {
	r := NewReconciler(nil)
	require.NoError(t, r.BeginEdit(samplePackage("Rome", "Arrive", "Colosseum")))

	require.NoError(t, r.AddDay())
	draft := r.Draft()
	require.Len(t, draft, 3)
	assert.Equal(t, models.ItineraryItem{Day: 3, Activity: DefaultActivity}, draft[2])

	require.NoError(t, r.BeginEdit(samplePackage("Rome")))
	require.NoError(t, r.AddDay())
	assert.Equal(t, []int{1}, days(r.Draft()))
}

func TestChangeActivityKeepsDay(t *testing.T) {
	r := NewReconciler(nil)
	require.NoError(t, r.BeginEdit(samplePackage("Rome", "Arrive", "Colosseum")))

	require.NoError(t, r.ChangeActivity(1, "Forum"))
	assert.Equal(t, models.ItineraryItem{Day: 2, Activity: "Forum"}, r.Draft()[1])

	require.NoError(t, r.ChangeActivity(0, ""))
	assert.Equal(t, "", r.Draft()[0].Activity)

	assert.ErrorIs(t, r.ChangeActivity(2, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, r.ChangeActivity(-1, "x"), ErrIndexOutOfRange)
}

func TestCancelDiscardsDraft(t *testing.T) {
	r := NewReconciler(nil)
	pkg := samplePackage("Rome", "Arrive")
	require.NoError(t, r.BeginEdit(pkg))
	require.NoError(t, r.ChangeActivity(0, "changed"))

	r.CancelEdit()
	assert.False(t, r.Editing())
	assert.Equal(t, "Arrive", pkg.Itinerary[0].Activity)

	require.NoError(t, r.BeginEdit(pkg))
	assert.Equal(t, "Arrive", r.Draft()[0].Activity)
}

func TestCommitUnsavedLeavesStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r := NewReconciler(store)
	pkg := samplePackage("Rome", "Arrive", "Colosseum")

	require.NoError(t, r.BeginEdit(pkg))
	require.NoError(t, r.AddDay())
	require.NoError(t, r.CommitEdit(ctx, pkg))

	assert.False(t, r.Editing())
	assert.Equal(t, []int{1, 2, 3}, days(pkg.Itinerary))
	trips, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, trips)
}

func TestCommitSavedUpdatesStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r := NewReconciler(store)
	pkg := samplePackage("Rome", "Arrive", "Colosseum", "Depart")

	saved, err := r.ToggleSave(ctx, pkg)
	require.NoError(t, err)
	require.True(t, saved)

	require.NoError(t, r.BeginEdit(pkg))
	require.NoError(t, r.RemoveDay(1))
	require.NoError(t, r.CommitEdit(ctx, pkg))

	stored, err := store.Get(ctx, "Rome")
	require.NoError(t, err)
	assert.Equal(t, pkg.Itinerary, stored.Itinerary)
	assert.Equal(t, []int{1, 2}, days(stored.Itinerary))

	// stored copy is independent of the live package
	pkg.Itinerary[0].Activity = "mutated"
	stored, err = store.Get(ctx, "Rome")
	require.NoError(t, err)
	assert.Equal(t, "Arrive", stored.Itinerary[0].Activity)
}

func TestToggleSaveTwiceRestoresMembership(t *testing.T) {
	ctx := context.Background()
	r := NewReconciler(NewMemoryStore())
	pkg := samplePackage("Rome", "Arrive")

	for _, want := range []bool{true, false, true, false} {
		saved, err := r.ToggleSave(ctx, pkg)
		require.NoError(t, err)
		assert.Equal(t, want, saved)
		is, err := r.IsSaved(ctx, "Rome")
		require.NoError(t, err)
		assert.Equal(t, want, is)
	}
}

func TestRemoveSavedTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r := NewReconciler(store)
	_, err := r.ToggleSave(ctx, samplePackage("Rome"))
	require.NoError(t, err)
	_, err = r.ToggleSave(ctx, samplePackage("Paris"))
	require.NoError(t, err)

	require.NoError(t, r.RemoveSavedTrip(ctx, "Rome"))
	require.NoError(t, r.RemoveSavedTrip(ctx, "Rome"))
	require.NoError(t, r.RemoveSavedTrip(ctx, "Nowhere"))

	trips, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "Paris", trips[0].City)
}

func TestDayKind(t *testing.T) {
	tests := []struct {
		activity string
		day      int
		want     Kind
	}{
		{"Arrive in Rome and check-in", 1, KindArrival},
		{"Arrive back from Tivoli by train", 3, KindTransport},
		{"Fly home from Fiumicino", 5, KindDeparture},
		{"Relax at the hotel spa", 2, KindStay},
		{"Vatican Museums and Sistine Chapel", 2, KindCulture},
		{"Pasta tasting in Trastevere", 3, KindFood},
		{"Souvenir hunting at Porta Portese", 4, KindShopping},
		{"Boat trip on the lake", 4, KindWater},
		{"Hike through the forest", 4, KindNature},
		{"Opera concert", 4, KindNightlife},
		{"Evening stroll", 4, KindNight},
		{"Sunrise at the Pincio", 4, KindMorning},
		{"Wander the old town", 4, KindSightseeing},
		{"", 1, KindSightseeing},
	}
	for _, tt := range tests {
		t.Run(tt.activity, func(t *testing.T) {
			assert.Equal(t, tt.want, DayKind(tt.activity, tt.day))
		})
	}
}

// failingStore reports every trip as saved and fails itinerary writes.
type failingStore struct {
	*MemoryStore
}

func (failingStore) Contains(context.Context, string) (bool, error) { return true, nil }

func (failingStore) ReplaceItinerary(context.Context, string, []models.ItineraryItem) error {
	return errors.New("write failed")
}

func TestCommitKeepsDraftWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	r := NewReconciler(failingStore{NewMemoryStore()})
	pkg := samplePackage("Rome", "Arrive", "Colosseum")

	require.NoError(t, r.BeginEdit(pkg))
	require.NoError(t, r.AddDay())
	assert.Error(t, r.CommitEdit(ctx, pkg))

	assert.True(t, r.Editing())
	assert.Equal(t, []int{1, 2, 3}, days(r.Draft()))
	assert.Equal(t, []int{1, 2}, days(pkg.Itinerary))
}

func TestResequence(t *testing.T) {
	in := []models.ItineraryItem{{Day: 3, Activity: "a"}, {Day: 3, Activity: "b"}, {Day: 9, Activity: "c"}}
	assert.False(t, Sequential(in))

	out := Resequence(in)
	assert.Equal(t, []int{1, 2, 3}, days(out))
	assert.Equal(t, "b", out[1].Activity)
	assert.True(t, Sequential(out))
	assert.Equal(t, 3, in[0].Day)

	assert.True(t, Sequential(nil))
	assert.Empty(t, Resequence(nil))
}
