package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderno/planner/internal/config"
	"github.com/coderno/planner/internal/kv"
	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/progress"
	"github.com/coderno/planner/internal/repo"
	"github.com/coderno/planner/internal/timeutil"
)

// fixture wires every service against one in-memory store with a pinned
// clock.
type fixture struct {
	now      time.Time
	tasks    *repo.Tasks
	rewards  *repo.Rewards
	progress *repo.Progress
	task     *TaskService
	pomodoro *PomodoroService
	focus    *FocusService
	reward   *RewardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := kv.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		now:      time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		tasks:    repo.NewTasks(store),
		rewards:  repo.NewRewards(store),
		progress: repo.NewProgress(store),
	}
	clock := func() time.Time { return f.now }

	engine := progress.NewEngine(f.progress).WithClock(clock)
	sessions := repo.NewPomodoros(store)
	f.task = NewTaskService(f.tasks, engine).WithClock(clock)
	f.pomodoro = NewPomodoroService(sessions, f.rewards, engine, config.Default().Pomodoro).WithClock(clock)
	f.focus = NewFocusService(repo.NewFocus(store), f.tasks, engine).WithClock(clock)
	f.reward = NewRewardService(f.rewards, sessions)
	return f
}

// advance moves the shared clock forward.
func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) todayRecord(t *testing.T) *model.ProgressRecord {
	t.Helper()
	rec, err := f.progress.RecordFor(timeutil.DateOf(f.now))
	require.NoError(t, err)
	return rec
}

// ============================================================
// TaskService
// ============================================================

func TestTaskCreate(t *testing.T) {
	f := newFixture(t)

	start := timeutil.ClockAt(9, 0)
	task, err := f.task.Create("  Write report  ", "quarterly", &start, true, []string{"outline", "", "draft"})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, model.StatusTodo, task.Status)
	assert.True(t, task.Focus)
	assert.Len(t, task.Subtasks, 2)
	assert.Equal(t, "2025-03-10T12:00:00Z", task.CreatedAt)
}

func TestTaskCreateRejectsEmptyTitle(t *testing.T) {
	f := newFixture(t)
	_, err := f.task.Create("   ", "", nil, false, nil)
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestTaskListUnscheduledLast(t *testing.T) {
	f := newFixture(t)
	late := timeutil.ClockAt(16, 0)
	early := timeutil.ClockAt(8, 0)
	f.task.Create("Late", "", &late, false, nil)
	f.task.Create("Floating", "", nil, false, nil)
	f.task.Create("Early", "", &early, false, nil)

	tasks, err := f.task.List()
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Early", tasks[0].Title)
	assert.Equal(t, "Late", tasks[1].Title)
	assert.Equal(t, "Floating", tasks[2].Title)
}

func TestTaskTodayAndTomorrow(t *testing.T) {
	f := newFixture(t)
	f.task.Create("Today's", "", nil, false, nil)
	f.advance(24 * time.Hour)
	f.task.Create("Tomorrow's", "", nil, false, nil)
	f.advance(-24 * time.Hour)

	today, err := f.task.Today()
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "Today's", today[0].Title)

	tomorrow, err := f.task.Tomorrow()
	require.NoError(t, err)
	require.Len(t, tomorrow, 1)
	assert.Equal(t, "Tomorrow's", tomorrow[0].Title)
}

func TestTaskMarkDoneCascadesAndTracks(t *testing.T) {
	f := newFixture(t)
	task, _ := f.task.Create("Chore", "", nil, false, []string{"a", "b"})

	require.NoError(t, f.task.MarkDone(task.ID))

	got, err := f.tasks.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, got.Status)
	for _, st := range got.Subtasks {
		assert.True(t, st.Done)
	}

	rec := f.todayRecord(t)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.TasksCompleted)

	// Second completion is a no-op; the counter stays at 1.
	require.NoError(t, f.task.MarkDone(task.ID))
	assert.Equal(t, 1, f.todayRecord(t).TasksCompleted)
}

func TestTaskToggleSubtaskDerivesStatus(t *testing.T) {
	f := newFixture(t)
	task, _ := f.task.Create("Chore", "", nil, false, []string{"a", "b"})

	require.NoError(t, f.task.ToggleSubtask(task.ID, task.Subtasks[0].ID))
	got, _ := f.tasks.Get(task.ID)
	assert.Equal(t, model.StatusInProgress, got.Status)

	require.NoError(t, f.task.ToggleSubtask(task.ID, task.Subtasks[1].ID))
	got, _ = f.tasks.Get(task.ID)
	assert.Equal(t, model.StatusDone, got.Status)
	assert.Equal(t, 1, f.todayRecord(t).TasksCompleted)

	// Unchecking drops the status back without un-counting.
	require.NoError(t, f.task.ToggleSubtask(task.ID, task.Subtasks[1].ID))
	got, _ = f.tasks.Get(task.ID)
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Equal(t, 1, f.todayRecord(t).TasksCompleted)
}

func TestTaskToggleSubtaskUnknown(t *testing.T) {
	f := newFixture(t)
	task, _ := f.task.Create("Chore", "", nil, false, []string{"a"})
	assert.ErrorIs(t, f.task.ToggleSubtask(task.ID, "ghost"), repo.ErrNotFound)
}

func TestTaskReorder(t *testing.T) {
	f := newFixture(t)
	a, _ := f.task.Create("a", "", nil, false, nil)
	b, _ := f.task.Create("b", "", nil, false, nil)
	c, _ := f.task.Create("c", "", nil, false, nil)

	require.NoError(t, f.task.Reorder([]string{c.ID, a.ID, "ghost"}))

	tasks, _ := f.tasks.All()
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

// ============================================================
// PomodoroService
// ============================================================

func TestPomodoroStartUsesConfiguredDurations(t *testing.T) {
	f := newFixture(t)

	work, err := f.pomodoro.Start("", model.SessionWork)
	require.NoError(t, err)
	assert.Equal(t, 25, work.Duration)

	short, _ := f.pomodoro.Start("", model.SessionShortBreak)
	assert.Equal(t, 5, short.Duration)

	long, _ := f.pomodoro.Start("", model.SessionLongBreak)
	assert.Equal(t, 15, long.Duration)
}

func TestPomodoroCompleteWorkTracksProgress(t *testing.T) {
	f := newFixture(t)
	session, _ := f.pomodoro.Start("t1", model.SessionWork)

	require.NoError(t, f.pomodoro.Complete(session.ID))

	rec := f.todayRecord(t)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.PomodoroSessions)
	assert.Equal(t, 25, rec.FocusMinutes)

	// Completing again changes nothing.
	require.NoError(t, f.pomodoro.Complete(session.ID))
	assert.Equal(t, 1, f.todayRecord(t).PomodoroSessions)
}

func TestPomodoroCompleteBreakTracksNothing(t *testing.T) {
	f := newFixture(t)
	session, _ := f.pomodoro.Start("", model.SessionShortBreak)

	require.NoError(t, f.pomodoro.Complete(session.ID))
	assert.Nil(t, f.todayRecord(t))

	n, err := f.pomodoro.CompletedTotal()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPomodoroCompleteUnlocksEarnedRewards(t *testing.T) {
	f := newFixture(t)
	easy, _ := f.reward.Create("Coffee", "", 2)
	hard, _ := f.reward.Create("Movie night", "", 5)

	for i := 0; i < 2; i++ {
		session, _ := f.pomodoro.Start("", model.SessionWork)
		require.NoError(t, f.pomodoro.Complete(session.ID))
	}

	unlocked, _ := f.reward.Unlocked()
	pending, _ := f.reward.Pending()
	require.Len(t, unlocked, 1)
	assert.Equal(t, easy.ID, unlocked[0].ID)
	require.Len(t, pending, 1)
	assert.Equal(t, hard.ID, pending[0].ID)
}

func TestPomodoroCompleteUnknown(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.pomodoro.Complete("ghost"), repo.ErrNotFound)
}

func TestPomodoroNextBreak(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, model.SessionShortBreak, f.pomodoro.NextBreak(0))
	assert.Equal(t, model.SessionShortBreak, f.pomodoro.NextBreak(3))
	assert.Equal(t, model.SessionLongBreak, f.pomodoro.NextBreak(4))
	assert.Equal(t, model.SessionLongBreak, f.pomodoro.NextBreak(8))
}

// ============================================================
// FocusService
// ============================================================

func TestFocusStartSeedsSubtaskProgress(t *testing.T) {
	f := newFixture(t)
	task, _ := f.task.Create("Deep work", "", nil, true, []string{"a", "b"})
	f.task.ToggleSubtask(task.ID, task.Subtasks[0].ID)

	session, err := f.focus.Start(task.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultFocusMinutes, session.Duration)
	assert.Equal(t, map[string]bool{
		task.Subtasks[0].ID: true,
		task.Subtasks[1].ID: false,
	}, session.SubtaskProgress)
}

func TestFocusStartUnknownTask(t *testing.T) {
	f := newFixture(t)
	_, err := f.focus.Start("ghost", 25)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestFocusStartSameTaskReturnsRunningSession(t *testing.T) {
	f := newFixture(t)
	task, _ := f.task.Create("Deep work", "", nil, false, nil)

	first, _ := f.focus.Start(task.ID, 25)
	second, err := f.focus.Start(task.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestFocusStartCompletesDanglingSession(t *testing.T) {
	f := newFixture(t)
	a, _ := f.task.Create("First", "", nil, false, nil)
	b, _ := f.task.Create("Second", "", nil, false, nil)

	f.focus.Start(a.ID, 25)
	f.advance(10 * time.Minute)

	session, err := f.focus.Start(b.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, b.ID, session.TaskID)

	// The dangling session's elapsed time was recorded.
	rec := f.todayRecord(t)
	require.NotNil(t, rec)
	assert.Equal(t, 10, rec.FocusMinutes)
}

func TestFocusCompleteTracksElapsed(t *testing.T) {
	f := newFixture(t)
	task, _ := f.task.Create("Deep work", "", nil, false, nil)
	f.focus.Start(task.ID, 25)
	f.advance(17 * time.Minute)

	require.NoError(t, f.focus.Complete())

	current, _ := f.focus.Current()
	assert.Nil(t, current)
	assert.Equal(t, 17, f.todayRecord(t).FocusMinutes)
}

func TestFocusCancelTracksNothing(t *testing.T) {
	f := newFixture(t)
	task, _ := f.task.Create("Deep work", "", nil, false, nil)
	f.focus.Start(task.ID, 25)
	f.advance(17 * time.Minute)

	require.NoError(t, f.focus.Cancel())
	assert.Nil(t, f.todayRecord(t))

	assert.ErrorIs(t, f.focus.Complete(), ErrNoActiveSession)
}

func TestFocusToggleSubtaskMirrorsToTask(t *testing.T) {
	f := newFixture(t)
	task, _ := f.task.Create("Deep work", "", nil, false, []string{"a", "b"})
	f.focus.Start(task.ID, 25)

	require.NoError(t, f.focus.ToggleSubtask(task.Subtasks[0].ID))

	got, _ := f.tasks.Get(task.ID)
	assert.True(t, got.Subtasks[0].Done)
	assert.Equal(t, model.StatusInProgress, got.Status)
}

func TestFocusProgressReport(t *testing.T) {
	f := newFixture(t)
	task, _ := f.task.Create("Deep work", "", nil, false, []string{"a", "b"})
	f.focus.Start(task.ID, 25)
	f.focus.ToggleSubtask(task.Subtasks[0].ID)
	f.advance(10 * time.Minute)

	report, err := f.focus.Progress()
	require.NoError(t, err)
	assert.Equal(t, 10, report.ElapsedMinutes)
	assert.Equal(t, 15, report.RemainingMinutes)
	assert.Equal(t, 50, report.PercentComplete)
}

func TestFocusProgressTimeBasedWithoutSubtasks(t *testing.T) {
	f := newFixture(t)
	task, _ := f.task.Create("Deep work", "", nil, false, nil)
	f.focus.Start(task.ID, 20)
	f.advance(30 * time.Minute)

	report, err := f.focus.Progress()
	require.NoError(t, err)
	assert.Equal(t, 0, report.RemainingMinutes)
	assert.Equal(t, 100, report.PercentComplete)
}

// ============================================================
// RewardService
// ============================================================

func TestRewardCreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.reward.Create("  ", "", 3)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = f.reward.Create("Coffee", "", 0)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestRewardProgressPercent(t *testing.T) {
	f := newFixture(t)
	reward, _ := f.reward.Create("Movie night", "", 4)

	session, _ := f.pomodoro.Start("", model.SessionWork)
	require.NoError(t, f.pomodoro.Complete(session.ID))

	percent, err := f.reward.Progress(reward)
	require.NoError(t, err)
	assert.Equal(t, 25, percent)

	reward.Unlocked = true
	percent, _ = f.reward.Progress(reward)
	assert.Equal(t, 100, percent)
}
