package repo

import (
	"sort"

	"github.com/coderno/planner/internal/kv"
	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/timeutil"
)

// Progress owns the daily progress records and the singleton streak state.
// Records are upserted by date; the collection never holds two records for
// the same day.
type Progress struct {
	store *kv.Store
}

func NewProgress(store *kv.Store) *Progress {
	return &Progress{store: store}
}

// Records returns every progress record in storage order (newest date
// first, the order SaveRecord maintains).
func (r *Progress) Records() ([]model.ProgressRecord, error) {
	var records []model.ProgressRecord
	if err := loadJSON(r.store, keyProgress, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// RecordsInRange returns records whose date falls in [start, end] inclusive.
func (r *Progress) RecordsInRange(start, end timeutil.Date) ([]model.ProgressRecord, error) {
	records, err := r.Records()
	if err != nil {
		return nil, err
	}
	var out []model.ProgressRecord
	for _, rec := range records {
		if rec.Date >= start && rec.Date <= end {
			out = append(out, rec)
		}
	}
	return out, nil
}

// RecordFor returns the record for the given date, or nil when the day has
// no activity yet.
func (r *Progress) RecordFor(date timeutil.Date) (*model.ProgressRecord, error) {
	records, err := r.Records()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Date == date {
			return &records[i], nil
		}
	}
	return nil, nil
}

// SaveRecord upserts the record by date and keeps the collection sorted
// newest first.
func (r *Progress) SaveRecord(record model.ProgressRecord) error {
	records, err := r.Records()
	if err != nil {
		return err
	}
	replaced := false
	for i := range records {
		if records[i].Date == record.Date {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	return saveJSON(r.store, keyProgress, records)
}

// Streak returns the stored streak state, zero-valued when none exists.
func (r *Progress) Streak() (model.StreakRecord, error) {
	var streak model.StreakRecord
	if err := loadJSON(r.store, keyStreak, &streak); err != nil {
		return model.StreakRecord{}, err
	}
	return streak, nil
}

// SaveStreak persists the streak state.
func (r *Progress) SaveStreak(streak model.StreakRecord) error {
	return saveJSON(r.store, keyStreak, streak)
}
