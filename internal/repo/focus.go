package repo

import (
	"github.com/coderno/planner/internal/kv"
	"github.com/coderno/planner/internal/model"
)

// Focus owns the single active focus session. A completed session is
// equivalent to no session.
type Focus struct {
	store *kv.Store
}

func NewFocus(store *kv.Store) *Focus {
	return &Focus{store: store}
}

// Current returns the active session, or nil when there is none.
func (r *Focus) Current() (*model.FocusSession, error) {
	var session model.FocusSession
	if err := loadJSON(r.store, keyFocus, &session); err != nil {
		return nil, err
	}
	if session.ID == "" || session.Completed {
		return nil, nil
	}
	return &session, nil
}

// Save stores the session as the current one.
func (r *Focus) Save(session model.FocusSession) error {
	return saveJSON(r.store, keyFocus, session)
}

// Clear drops the current session entirely.
func (r *Focus) Clear() error {
	return r.store.Remove(keyFocus)
}
