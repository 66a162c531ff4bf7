package repo

import (
	"testing"

	"github.com/coderno/planner/internal/kv"
	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/timeutil"
)

func newTestKV(t *testing.T) *kv.Store {
	t.Helper()
	s, err := kv.OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func clockPtr(h, m int) *timeutil.Clock {
	c := timeutil.ClockAt(h, m)
	return &c
}

// ============================================================
// Tasks
// ============================================================

func TestTaskSaveAndGet(t *testing.T) {
	r := NewTasks(newTestKV(t))
	task := model.Task{ID: "t1", Title: "Write report", Status: model.StatusTodo, CreatedAt: "2025-03-10T09:00:00Z"}
	if err := r.Save(task); err != nil {
		t.Fatal(err)
	}

	got, err := r.Get("t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Write report" || got.Status != model.StatusTodo {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestTaskSaveUpsertsByID(t *testing.T) {
	r := NewTasks(newTestKV(t))
	r.Save(model.Task{ID: "t1", Title: "v1", Status: model.StatusTodo})
	r.Save(model.Task{ID: "t1", Title: "v2", Status: model.StatusDone})

	tasks, _ := r.All()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "v2" {
		t.Fatalf("expected replacement, got %q", tasks[0].Title)
	}
}

func TestTaskUpdateNotFound(t *testing.T) {
	r := NewTasks(newTestKV(t))
	err := r.Update(model.Task{ID: "ghost"})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskDelete(t *testing.T) {
	r := NewTasks(newTestKV(t))
	r.Save(model.Task{ID: "t1", Title: "a"})
	r.Save(model.Task{ID: "t2", Title: "b"})

	if err := r.Delete("t1"); err != nil {
		t.Fatal(err)
	}
	tasks, _ := r.All()
	if len(tasks) != 1 || tasks[0].ID != "t2" {
		t.Fatalf("unexpected tasks after delete: %+v", tasks)
	}
	if err := r.Delete("t1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskStartTimeRoundTrip(t *testing.T) {
	r := NewTasks(newTestKV(t))
	r.Save(model.Task{ID: "t1", Title: "timed", StartTime: clockPtr(9, 30)})

	got, err := r.Get("t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.StartTime == nil || got.StartTime.String() != "09:30" {
		t.Fatalf("start time lost in round trip: %+v", got.StartTime)
	}
}

// ============================================================
// Routines
// ============================================================

func TestRoutinesSortedByTime(t *testing.T) {
	r := NewRoutines(newTestKV(t))
	r.Save(model.DailyRoutine{ID: "r1", Name: "Wind down", Time: timeutil.ClockAt(22, 0), Duration: 30, Repeat: model.RepeatDaily})
	r.Save(model.DailyRoutine{ID: "r2", Name: "Morning", Time: timeutil.ClockAt(7, 0), Duration: 45, Repeat: model.RepeatDaily})
	r.Save(model.DailyRoutine{ID: "r3", Name: "Lunch", Time: timeutil.ClockAt(13, 0), Duration: 30, Repeat: model.RepeatWeekday})

	routines, err := r.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(routines) != 3 {
		t.Fatalf("expected 3 routines, got %d", len(routines))
	}
	for i, want := range []string{"Morning", "Lunch", "Wind down"} {
		if routines[i].Name != want {
			t.Fatalf("position %d: got %q, want %q", i, routines[i].Name, want)
		}
	}
}

func TestRoutineSaveAssignsID(t *testing.T) {
	r := NewRoutines(newTestKV(t))
	r.Save(model.DailyRoutine{Name: "Morning", Time: timeutil.ClockAt(7, 0), Duration: 45, Repeat: model.RepeatDaily})

	routines, _ := r.All()
	if len(routines) != 1 || routines[0].ID == "" {
		t.Fatalf("expected generated id, got %+v", routines)
	}
}

func TestRoutineDeleteNotFound(t *testing.T) {
	r := NewRoutines(newTestKV(t))
	if err := r.Delete("nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Progress records
// ============================================================

func TestProgressUpsertByDate(t *testing.T) {
	r := NewProgress(newTestKV(t))
	r.SaveRecord(model.ProgressRecord{Date: "2025-03-10", TasksCompleted: 1})
	r.SaveRecord(model.ProgressRecord{Date: "2025-03-10", TasksCompleted: 3})

	records, err := r.Records()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected a single record per date, got %d", len(records))
	}
	if records[0].TasksCompleted != 3 {
		t.Fatalf("expected replacement, got %d", records[0].TasksCompleted)
	}
}

func TestProgressRecordsNewestFirst(t *testing.T) {
	r := NewProgress(newTestKV(t))
	r.SaveRecord(model.ProgressRecord{Date: "2025-03-08"})
	r.SaveRecord(model.ProgressRecord{Date: "2025-03-10"})
	r.SaveRecord(model.ProgressRecord{Date: "2025-03-09"})

	records, _ := r.Records()
	if records[0].Date != "2025-03-10" || records[2].Date != "2025-03-08" {
		t.Fatalf("unexpected order: %+v", records)
	}
}

func TestProgressRecordsInRange(t *testing.T) {
	r := NewProgress(newTestKV(t))
	for _, d := range []timeutil.Date{"2025-03-05", "2025-03-08", "2025-03-12"} {
		r.SaveRecord(model.ProgressRecord{Date: d, TasksCompleted: 1})
	}

	records, err := r.RecordsInRange("2025-03-06", "2025-03-12")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records in range, got %d", len(records))
	}
}

func TestStreakRoundTrip(t *testing.T) {
	r := NewProgress(newTestKV(t))

	streak, err := r.Streak()
	if err != nil {
		t.Fatal(err)
	}
	if streak.CurrentStreak != 0 || streak.LastActiveDate != "" {
		t.Fatalf("expected zero streak, got %+v", streak)
	}

	r.SaveStreak(model.StreakRecord{CurrentStreak: 3, LongestStreak: 5, LastActiveDate: "2025-03-10"})
	streak, _ = r.Streak()
	if streak.CurrentStreak != 3 || streak.LongestStreak != 5 || streak.LastActiveDate != "2025-03-10" {
		t.Fatalf("unexpected streak: %+v", streak)
	}
}

// ============================================================
// Rewards and focus
// ============================================================

func TestRewardUnlock(t *testing.T) {
	r := NewRewards(newTestKV(t))
	r.Save(model.Reward{ID: "rw1", Name: "Movie night", RequiredSessions: 4})
	r.Save(model.Reward{ID: "rw2", Name: "New book", RequiredSessions: 10})

	if err := r.Unlock("rw1"); err != nil {
		t.Fatal(err)
	}
	unlocked, _ := r.Unlocked()
	pending, _ := r.Pending()
	if len(unlocked) != 1 || unlocked[0].ID != "rw1" {
		t.Fatalf("unexpected unlocked: %+v", unlocked)
	}
	if len(pending) != 1 || pending[0].ID != "rw2" {
		t.Fatalf("unexpected pending: %+v", pending)
	}

	if err := r.Unlock("ghost"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFocusSingleton(t *testing.T) {
	r := NewFocus(newTestKV(t))

	current, err := r.Current()
	if err != nil {
		t.Fatal(err)
	}
	if current != nil {
		t.Fatal("expected no session initially")
	}

	r.Save(model.FocusSession{ID: "f1", TaskID: "t1", StartTime: "2025-03-10T09:00:00Z", Duration: 25})
	current, _ = r.Current()
	if current == nil || current.ID != "f1" {
		t.Fatalf("unexpected session: %+v", current)
	}

	// A completed session reads back as no session.
	r.Save(model.FocusSession{ID: "f1", TaskID: "t1", Completed: true})
	current, _ = r.Current()
	if current != nil {
		t.Fatal("completed session should read as nil")
	}

	r.Save(model.FocusSession{ID: "f2", TaskID: "t2"})
	r.Clear()
	current, _ = r.Current()
	if current != nil {
		t.Fatal("cleared session should read as nil")
	}
}

// ============================================================
// Corruption fallback
// ============================================================

func TestCorruptCollectionReadsAsEmpty(t *testing.T) {
	store := newTestKV(t)
	store.Set("planner:tasks", "{not json[")
	store.Set("planner:progress", "also not json")

	tasks, err := NewTasks(store).All()
	if err != nil {
		t.Fatalf("corrupt value should not error: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty collection, got %d", len(tasks))
	}

	records, err := NewProgress(store).Records()
	if err != nil || len(records) != 0 {
		t.Fatalf("expected empty records, got %d (%v)", len(records), err)
	}
}
