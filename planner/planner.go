// Package planner manages itinerary drafts and the saved-trips collection.
package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"wanderplan/models"
)

// DefaultActivity is the text of a newly added day.
const DefaultActivity = "Explore the city at your leisure."

var (
	ErrNotEditing      = errors.New("itinerary is not being edited")
	ErrIndexOutOfRange = errors.New("itinerary index out of range")
)

// Reconciler holds one itinerary draft and commits it back to the package
// and, when the package is saved, to the store.
type Reconciler struct {
	store   Store
	editing bool
	draft   []models.ItineraryItem
}

// NewReconciler returns a reconciler over store.
func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Editing reports whether a draft is open.
func (r *Reconciler) Editing() bool {
	return r.editing
}

// Draft returns a copy of the current draft.
func (r *Reconciler) Draft() []models.ItineraryItem {
	return models.CloneItinerary(r.draft)
}

// BeginEdit snapshots pkg's itinerary into a fresh draft.
func (r *Reconciler) BeginEdit(pkg *models.TravelPackage) error {
	if pkg == nil {
		return errors.New("no package to edit")
	}
	r.draft = models.CloneItinerary(pkg.Itinerary)
	if r.draft == nil {
		r.draft = []models.ItineraryItem{}
	}
	r.editing = true
	return nil
}

// CancelEdit drops the draft.
func (r *Reconciler) CancelEdit() {
	r.editing = false
	r.draft = nil
}

// ChangeActivity rewrites the activity of draft entry i; its day is kept.
func (r *Reconciler) ChangeActivity(i int, text string) error {
	if err := r.check(i); err != nil {
		return err
	}
	r.draft[i].Activity = text
	return nil
}

// AddDay appends day N+1 with the default activity.
func (r *Reconciler) AddDay() error {
	if !r.editing {
		return ErrNotEditing
	}
	r.draft = append(r.draft, models.ItineraryItem{Day: len(r.draft) + 1, Activity: DefaultActivity})
	return nil
}

// RemoveDay drops entry i and renumbers the remaining days 1..N.
func (r *Reconciler) RemoveDay(i int) error {
	if err := r.check(i); err != nil {
		return err
	}
	r.draft = Resequence(lo.Reject(r.draft, func(_ models.ItineraryItem, idx int) bool { return idx == i }))
	return nil
}

// Resequence returns a copy of items with days renumbered 1..N in slice order.
func Resequence(items []models.ItineraryItem) []models.ItineraryItem {
	return lo.Map(items, func(item models.ItineraryItem, idx int) models.ItineraryItem {
		item.Day = idx + 1
		return item
	})
}

// Sequential reports whether the days of items are exactly 1..N in order.
func Sequential(items []models.ItineraryItem) bool {
	for i, it := range items {
		if it.Day != i+1 {
			return false
		}
	}
	return true
}

// CommitEdit writes the draft into pkg and closes the draft. When pkg's city
// is saved, the saved copy's itinerary is overwritten first; if that fails,
// pkg and the draft are left as they were.
func (r *Reconciler) CommitEdit(ctx context.Context, pkg *models.TravelPackage) error {
	if !r.editing {
		return ErrNotEditing
	}
	if pkg == nil {
		return errors.New("no package to commit to")
	}

	items := models.CloneItinerary(r.draft)
	if r.store != nil {
		saved, err := r.store.Contains(ctx, pkg.City)
		if err != nil {
			return fmt.Errorf("check saved trip %q: %w", pkg.City, err)
		}
		if saved {
			if err := r.store.ReplaceItinerary(ctx, pkg.City, items); err != nil {
				return fmt.Errorf("update saved trip %q: %w", pkg.City, err)
			}
		}
	}

	pkg.Itinerary = items
	r.editing = false
	r.draft = nil
	return nil
}

// ToggleSave saves pkg as it is now, or unsaves it when its city is saved.
func (r *Reconciler) ToggleSave(ctx context.Context, pkg *models.TravelPackage) (bool, error) {
	if r.store == nil {
		return false, errors.New("no saved-trips store")
	}
	return r.store.Toggle(ctx, pkg)
}

// IsSaved reports whether city is in the saved trips.
func (r *Reconciler) IsSaved(ctx context.Context, city string) (bool, error) {
	if r.store == nil {
		return false, nil
	}
	return r.store.Contains(ctx, city)
}

// RemoveSavedTrip deletes city from the saved trips; absent is fine.
func (r *Reconciler) RemoveSavedTrip(ctx context.Context, city string) error {
	if r.store == nil {
		return nil
	}
	return r.store.Remove(ctx, city)
}

func (r *Reconciler) check(i int) error {
	if !r.editing {
		return ErrNotEditing
	}
	if i < 0 || i >= len(r.draft) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(r.draft))
	}
	return nil
}
