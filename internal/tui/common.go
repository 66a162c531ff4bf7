package tui

import (
	"fmt"
	"time"

	"github.com/coderno/planner/internal/model"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewTasks
	viewPomodoro
	viewRoutines
	viewProgress
	viewRewards
)

var viewNames = []string{"Today", "Tasks", "Pomodoro", "Routines", "Progress", "Rewards"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type timelineDataMsg struct {
	blocks  []model.CombinedBlock
	overlap []string // human-readable conflict lines
}

type tasksDataMsg struct {
	tasks []model.Task
	focus *model.FocusSession
}

type routinesDataMsg struct {
	routines    []model.DailyRoutine
	suggestions []model.DailyRoutine
}

type progressDataMsg struct {
	stats *model.ProgressStats
}

type rewardsDataMsg struct {
	rewards  []model.Reward
	progress map[string]int // reward id -> percent
}

type pomodoroDoneMsg struct {
	sessionType model.SessionType
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
