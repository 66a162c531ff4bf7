package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/coderno/planner/internal/config"
	"github.com/coderno/planner/internal/kv"
	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/progress"
	"github.com/coderno/planner/internal/repo"
	"github.com/coderno/planner/internal/schedule"
	"github.com/coderno/planner/internal/service"
	"github.com/coderno/planner/internal/timeutil"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	store, err := kv.OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	tasks := repo.NewTasks(store)
	routines := repo.NewRoutines(store)
	records := repo.NewProgress(store)
	rewards := repo.NewRewards(store)
	sessions := repo.NewPomodoros(store)
	engine := progress.NewEngine(records)

	return Deps{
		Config:   cfg,
		Tasks:    service.NewTaskService(tasks, engine),
		Pomodoro: service.NewPomodoroService(sessions, rewards, engine, cfg.Pomodoro),
		Focus:    service.NewFocusService(repo.NewFocus(store), tasks, engine),
		Rewards:  service.NewRewardService(rewards, sessions),
		Engine:   engine,
		Composer: schedule.NewComposer(tasks, routines),
		Records:  records,
		Routines: routines,
	}
}

// ============================================================
// Formatting helpers
// ============================================================

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{75, "1h 15m"},
		{120, "2h"},
	}
	for _, tc := range cases {
		if got := formatMinutes(tc.minutes); got != tc.want {
			t.Fatalf("formatMinutes(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	if got := formatCountdown(25 * time.Minute); got != "25:00" {
		t.Fatalf("got %q, want 25:00", got)
	}
	if got := formatCountdown(-time.Second); got != "00:00" {
		t.Fatalf("negative countdown should clamp, got %q", got)
	}
}

// ============================================================
// Style lookups
// ============================================================

func TestBlockColorFallback(t *testing.T) {
	if blockColor(model.ColorGreen) == blockColor(model.Color("nonsense")) {
		t.Fatal("known color should differ from fallback")
	}
	if blockColor(model.Color("nonsense")) != blockColors[model.ColorNeutral] {
		t.Fatal("unknown color should fall back to neutral")
	}
}

func TestIconGlyphFallback(t *testing.T) {
	if iconGlyph(model.IconSun) == "•" {
		t.Fatal("known icon should have its own glyph")
	}
	if iconGlyph(model.Icon("nonsense")) != "•" {
		t.Fatal("unknown icon should fall back to bullet")
	}
}

func TestViewNamesMatchTabCount(t *testing.T) {
	if len(viewNames) != 6 {
		t.Fatalf("expected 6 tabs, got %d", len(viewNames))
	}
}

// ============================================================
// Today view
// ============================================================

func TestTodayViewRendersBlocksAndOverlap(t *testing.T) {
	deps := newTestDeps(t)
	m := newTodayModel(deps)
	m.setSize(120, 40)
	m.date = "2025-03-10"

	start := timeutil.ClockAt(9, 0)
	blocks := []model.CombinedBlock{
		{ID: "r1", Title: "Morning routine", Icon: model.IconSun, Color: model.ColorYellow,
			StartTime: timeutil.ClockAt(7, 0), EndTime: timeutil.ClockAt(7, 45), IsRoutine: true},
		{ID: "t1", Title: "Write report", Color: model.ColorNeutral,
			StartTime: start, EndTime: timeutil.ClockAt(9, 30)},
	}
	m, _ = m.update(timelineDataMsg{
		blocks:  blocks,
		overlap: []string{"09:00 Write report ↔ 09:15 Standup"},
	})

	out := m.view()
	if !strings.Contains(out, "Morning routine") || !strings.Contains(out, "Write report") {
		t.Fatal("view should render both blocks")
	}
	if !strings.Contains(out, "overlap") {
		t.Fatal("view should surface the overlap warning")
	}
	if !strings.Contains(out, "07:00") || !strings.Contains(out, "07:30") {
		t.Fatal("view should render the half-hour grid")
	}
}

func TestTodayRefreshProducesTimeline(t *testing.T) {
	deps := newTestDeps(t)
	deps.Routines.Save(model.DailyRoutine{
		Name: "Morning", Time: timeutil.ClockAt(7, 0), Duration: 45, Repeat: model.RepeatDaily,
	})

	m := newTodayModel(deps)
	msg := m.refresh()()
	data, ok := msg.(timelineDataMsg)
	if !ok {
		t.Fatalf("expected timelineDataMsg, got %T", msg)
	}
	if len(data.blocks) != 1 || data.blocks[0].Title != "Morning" {
		t.Fatalf("unexpected blocks: %+v", data.blocks)
	}
	if len(data.overlap) != 0 {
		t.Fatalf("single block cannot overlap: %v", data.overlap)
	}
}

// ============================================================
// Tasks view
// ============================================================

func TestTasksRefreshListsTasks(t *testing.T) {
	deps := newTestDeps(t)
	deps.Tasks.Create("Write report", "", nil, false, nil)

	m := newTasksModel(deps)
	msg := m.refresh()()
	data, ok := msg.(tasksDataMsg)
	if !ok {
		t.Fatalf("expected tasksDataMsg, got %T", msg)
	}
	if len(data.tasks) != 1 || data.tasks[0].Title != "Write report" {
		t.Fatalf("unexpected tasks: %+v", data.tasks)
	}
	if data.focus != nil {
		t.Fatal("no focus session expected")
	}

	m, _ = m.update(data)
	m.setSize(100, 40)
	out := m.view()
	if !strings.Contains(out, "Write report") {
		t.Fatal("view should render the task")
	}
}

// ============================================================
// Pomodoro view
// ============================================================

func TestPomodoroStartAndCancel(t *testing.T) {
	deps := newTestDeps(t)
	m := newPomodoroModel(deps)
	m.setSize(80, 24)

	if m.running() {
		t.Fatal("should start idle")
	}

	m, _ = m.startPhase(model.SessionWork)
	if !m.running() || m.phase != pomodoroWork {
		t.Fatalf("expected running work phase, got %v", m.phase)
	}
	if m.sessionID == "" {
		t.Fatal("work phase should persist a session")
	}
	if m.remaining != 25*time.Minute {
		t.Fatalf("expected 25 minute countdown, got %v", m.remaining)
	}

	m, _ = m.cancel()
	if m.running() {
		t.Fatal("cancel should return to idle")
	}
}

// ============================================================
// Rewards view
// ============================================================

func TestRewardsRefreshIncludesProgress(t *testing.T) {
	deps := newTestDeps(t)
	reward, _ := deps.Rewards.Create("Movie night", "", 4)

	m := newRewardsModel(deps)
	msg := m.refresh()()
	data, ok := msg.(rewardsDataMsg)
	if !ok {
		t.Fatalf("expected rewardsDataMsg, got %T", msg)
	}
	if len(data.rewards) != 1 {
		t.Fatalf("expected 1 reward, got %d", len(data.rewards))
	}
	if pct, ok := data.progress[reward.ID]; !ok || pct != 0 {
		t.Fatalf("expected 0%% progress, got %d", pct)
	}
}

// ============================================================
// Progress view
// ============================================================

func TestProgressRefreshBuildsStats(t *testing.T) {
	deps := newTestDeps(t)
	deps.Engine.TrackCompletedTask()

	m := newProgressModel(deps)
	m.setSize(100, 30)
	msg := m.refresh()()
	data, ok := msg.(progressDataMsg)
	if !ok {
		t.Fatalf("expected progressDataMsg, got %T", msg)
	}
	if data.stats == nil || data.stats.Streak.CurrentStreak != 1 {
		t.Fatalf("expected a 1-day streak, got %+v", data.stats)
	}

	m, _ = m.update(data)
	out := m.view()
	if !strings.Contains(out, "Streak") {
		t.Fatal("view should render streak line")
	}
}
