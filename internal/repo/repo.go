// Package repo maps entity collections onto the key-value store. Each
// repository owns one key holding a JSON array (or a single JSON object for
// singleton state). A malformed stored value is treated as an empty
// collection and logged, never as a fatal error.
package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coderno/planner/internal/kv"
)

// Storage keys, one per entity type.
const (
	keyTasks     = "planner:tasks"
	keyRoutines  = "planner:routines"
	keyPomodoros = "planner:pomodoro_sessions"
	keyFocus     = "planner:focus_session"
	keyRewards   = "planner:rewards"
	keyProgress  = "planner:progress"
	keyStreak    = "planner:streak"
)

// ErrNotFound reports an update or delete aimed at an id that is not in the
// collection.
var ErrNotFound = errors.New("entity not found")

// loadJSON reads key and unmarshals it into out. A missing key leaves out
// untouched; a corrupt value is logged and also leaves out untouched.
func loadJSON(store *kv.Store, key string, out any) error {
	raw, ok, err := store.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		slog.Warn("discarding corrupt stored value", slog.String("key", key), slog.String("error", err.Error()))
		return nil
	}
	return nil
}

func saveJSON(store *kv.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return store.Set(key, string(data))
}
