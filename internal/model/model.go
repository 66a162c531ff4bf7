// Package model defines the planner's persisted entities and the derived
// types produced by the aggregation and timeline code. Presentation concerns
// stay out: colors and icons are semantic names resolved to terminal styles
// by the TUI layer.
package model

import (
	"github.com/coderno/planner/internal/timeutil"
)

// Color is a semantic color name attached to routines and timeline blocks.
type Color string

const (
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorBlue    Color = "blue"
	ColorIndigo  Color = "indigo"
	ColorPurple  Color = "purple"
	ColorOrange  Color = "orange"
	ColorRed     Color = "red"
	ColorNeutral Color = "neutral"
)

// Icon identifies a routine glyph.
type Icon string

const (
	IconSun   Icon = "sun"
	IconMeal  Icon = "meal"
	IconRest  Icon = "rest"
	IconSleep Icon = "sleep"
	IconNote  Icon = "note"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// Subtask is a checklist item inside a task.
type Subtask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Task is a single to-do item. StartTime is optional; tasks without one
// never appear on the daily timeline.
type Task struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Subtasks    []Subtask       `json:"subtasks,omitempty"`
	StartTime   *timeutil.Clock `json:"startTime,omitempty"`
	Status      TaskStatus      `json:"status"`
	Focus       bool            `json:"focus"`
	CreatedAt   string          `json:"createdAt"` // RFC3339
}

// RepeatRule says which days of the week a routine applies to.
type RepeatRule string

const (
	RepeatDaily   RepeatRule = "daily"
	RepeatWeekday RepeatRule = "weekday"
	RepeatWeekend RepeatRule = "weekend"
)

// AppliesTo reports whether the rule matches the given date's weekday.
func (r RepeatRule) AppliesTo(date timeutil.Date) bool {
	switch r {
	case RepeatDaily:
		return true
	case RepeatWeekday:
		return !date.IsWeekend()
	case RepeatWeekend:
		return date.IsWeekend()
	}
	return false
}

// DailyRoutine is a recurring time-boxed activity.
type DailyRoutine struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Icon     Icon           `json:"icon"`
	Time     timeutil.Clock `json:"time"`
	Duration int            `json:"duration"` // minutes, > 0
	Repeat   RepeatRule     `json:"repeat"`
	Color    Color          `json:"color,omitempty"`
	Notes    string         `json:"notes,omitempty"`
}

// SessionType distinguishes pomodoro work phases from breaks. Only work
// sessions count toward progress and reward thresholds.
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short-break"
	SessionLongBreak  SessionType = "long-break"
)

// PomodoroSession is one timed pomodoro phase.
type PomodoroSession struct {
	ID        string      `json:"id"`
	TaskID    string      `json:"taskId,omitempty"`
	StartTime string      `json:"startTime"` // RFC3339
	Duration  int         `json:"duration"`  // minutes
	Type      SessionType `json:"type"`
	Completed bool        `json:"completed"`
}

// FocusSession is the single active deep-work session, if any.
type FocusSession struct {
	ID              string          `json:"id"`
	TaskID          string          `json:"taskId"`
	StartTime       string          `json:"startTime"` // RFC3339
	Duration        int             `json:"duration"`  // minutes
	Completed       bool            `json:"completed"`
	SubtaskProgress map[string]bool `json:"subtaskProgress"`
}

// Reward unlocks after a number of completed work sessions.
type Reward struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Unlocked         bool   `json:"unlocked"`
	RequiredSessions int    `json:"requiredSessions"`
}

// ProgressRecord accumulates one calendar day's activity counters. At most
// one record exists per date.
type ProgressRecord struct {
	Date             timeutil.Date `json:"date"`
	TasksCompleted   int           `json:"tasksCompleted"`
	PomodoroSessions int           `json:"pomodoroSessions"`
	FocusMinutes     int           `json:"focusMinutes"`
}

// StreakRecord is the singleton streak state. LongestStreak never falls
// below CurrentStreak.
type StreakRecord struct {
	CurrentStreak  int           `json:"currentStreak"`
	LongestStreak  int           `json:"longestStreak"`
	LastActiveDate timeutil.Date `json:"lastActiveDate,omitempty"`
}

// WeeklySummary is a Sunday-to-Saturday rollup of progress records. Derived,
// never persisted.
type WeeklySummary struct {
	WeekStart             timeutil.Date    `json:"weekStart"`
	WeekEnd               timeutil.Date    `json:"weekEnd"`
	TotalTasksCompleted   int              `json:"totalTasksCompleted"`
	TotalPomodoroSessions int              `json:"totalPomodoroSessions"`
	TotalFocusMinutes     int              `json:"totalFocusMinutes"`
	DailyData             []ProgressRecord `json:"dailyData"`
}

// BestDay is the highest-scoring progress record.
type BestDay struct {
	Date           timeutil.Date `json:"date"`
	TasksCompleted int           `json:"tasksCompleted"`
	FocusMinutes   int           `json:"focusMinutes"`
}

// ProgressStats bundles everything the progress view renders.
type ProgressStats struct {
	Weekly           []WeeklySummary `json:"weeklyData"`
	Streak           StreakRecord    `json:"streak"`
	BestDay          *BestDay        `json:"bestDay"`
	AverageFocusTime int             `json:"averageFocusTime"` // minutes
}

// BlockSource identifies what a combined block was built from.
type BlockSource struct {
	Routine *DailyRoutine
	Task    *Task
}

// CombinedBlock is a unified timeline entry for either a routine or a
// scheduled task. Built fresh on every timeline request.
type CombinedBlock struct {
	ID        string
	Title     string
	Icon      Icon
	Color     Color
	StartTime timeutil.Clock
	EndTime   timeutil.Clock
	Duration  int // minutes
	IsRoutine bool
	Source    BlockSource
}

// TimeSlot is one half-hour tick on the rendered timeline axis.
type TimeSlot struct {
	Time       timeutil.Clock
	IsHalfHour bool
}
