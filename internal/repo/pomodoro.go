package repo

import (
	"time"

	"github.com/coderno/planner/internal/kv"
	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/timeutil"
)

// Pomodoros owns the pomodoro-session collection.
type Pomodoros struct {
	store *kv.Store
}

func NewPomodoros(store *kv.Store) *Pomodoros {
	return &Pomodoros{store: store}
}

func (r *Pomodoros) All() ([]model.PomodoroSession, error) {
	var sessions []model.PomodoroSession
	if err := loadJSON(r.store, keyPomodoros, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Save appends the session, or replaces the stored session with the same id.
func (r *Pomodoros) Save(session model.PomodoroSession) error {
	sessions, err := r.All()
	if err != nil {
		return err
	}
	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}
	return saveJSON(r.store, keyPomodoros, sessions)
}

// Update replaces an existing session; ErrNotFound if the id is unknown.
func (r *Pomodoros) Update(session model.PomodoroSession) error {
	sessions, err := r.All()
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			return saveJSON(r.store, keyPomodoros, sessions)
		}
	}
	return ErrNotFound
}

// ByDate returns the sessions started on the given calendar date.
func (r *Pomodoros) ByDate(date timeutil.Date) ([]model.PomodoroSession, error) {
	sessions, err := r.All()
	if err != nil {
		return nil, err
	}
	var out []model.PomodoroSession
	for _, s := range sessions {
		started, err := time.Parse(time.RFC3339, s.StartTime)
		if err != nil {
			continue
		}
		if timeutil.DateOf(started) == date {
			out = append(out, s)
		}
	}
	return out, nil
}
