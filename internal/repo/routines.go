package repo

import (
	"sort"

	"github.com/google/uuid"

	"github.com/coderno/planner/internal/kv"
	"github.com/coderno/planner/internal/model"
)

// Routines owns the daily-routine collection.
type Routines struct {
	store *kv.Store
}

func NewRoutines(store *kv.Store) *Routines {
	return &Routines{store: store}
}

// All returns every routine sorted ascending by start time.
func (r *Routines) All() ([]model.DailyRoutine, error) {
	var routines []model.DailyRoutine
	if err := loadJSON(r.store, keyRoutines, &routines); err != nil {
		return nil, err
	}
	sort.SliceStable(routines, func(i, j int) bool {
		return routines[i].Time < routines[j].Time
	})
	return routines, nil
}

// Save inserts the routine (assigning an id when empty) or replaces the
// stored routine with the same id.
func (r *Routines) Save(routine model.DailyRoutine) error {
	routines, err := r.All()
	if err != nil {
		return err
	}
	if routine.ID == "" {
		routine.ID = uuid.NewString()
	}
	replaced := false
	for i := range routines {
		if routines[i].ID == routine.ID {
			routines[i] = routine
			replaced = true
			break
		}
	}
	if !replaced {
		routines = append(routines, routine)
	}
	return saveJSON(r.store, keyRoutines, routines)
}

// Delete removes the routine with the given id; ErrNotFound if absent.
func (r *Routines) Delete(id string) error {
	routines, err := r.All()
	if err != nil {
		return err
	}
	kept := routines[:0]
	found := false
	for _, routine := range routines {
		if routine.ID == id {
			found = true
			continue
		}
		kept = append(kept, routine)
	}
	if !found {
		return ErrNotFound
	}
	return saveJSON(r.store, keyRoutines, kept)
}
