// Package schedule composes a day's routines and scheduled tasks into one
// chronological timeline, generates the half-hour axis the timeline renders
// on, and reports time conflicts.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/repo"
	"github.com/coderno/planner/internal/timeutil"
)

// taskBlockDuration is the assumed length of a scheduled task; tasks carry
// no duration of their own.
const taskBlockDuration = 30

// suggestionThreshold is how many similarly timed tasks it takes before an
// hour is proposed as a routine.
const suggestionThreshold = 3

// Composer builds timeline views from the task and routine collections.
type Composer struct {
	tasks    *repo.Tasks
	routines *repo.Routines
}

func NewComposer(tasks *repo.Tasks, routines *repo.Routines) *Composer {
	return &Composer{tasks: tasks, routines: routines}
}

// TimeSlots emits one slot per half hour from startHour:00 through
// endHour:00 inclusive. The trailing :30 after the final hour is omitted.
func TimeSlots(startHour, endHour int) []model.TimeSlot {
	var slots []model.TimeSlot
	for hour := startHour; hour <= endHour; hour++ {
		slots = append(slots, model.TimeSlot{Time: timeutil.ClockAt(hour, 0)})
		if hour < endHour {
			slots = append(slots, model.TimeSlot{Time: timeutil.ClockAt(hour, 30), IsHalfHour: true})
		}
	}
	return slots
}

// RoutinesFor returns the routines whose repeat rule covers the date's
// weekday, sorted by start time.
func (c *Composer) RoutinesFor(date timeutil.Date) ([]model.DailyRoutine, error) {
	all, err := c.routines.All()
	if err != nil {
		return nil, fmt.Errorf("load routines: %w", err)
	}
	var out []model.DailyRoutine
	for _, r := range all {
		if r.Repeat.AppliesTo(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

// tasksFor selects the tasks that belong on the date's timeline: a task
// qualifies when it has a start time and was created on that calendar day.
// Scheduling a task for a different day than its creation day is not
// supported by the data model.
func (c *Composer) tasksFor(date timeutil.Date) ([]model.Task, error) {
	all, err := c.tasks.All()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	var out []model.Task
	for _, task := range all {
		if task.StartTime == nil {
			continue
		}
		created, err := time.Parse(time.RFC3339, task.CreatedAt)
		if err != nil {
			continue
		}
		if timeutil.DateOf(created) == date {
			out = append(out, task)
		}
	}
	return out, nil
}

// Timeline merges the date's routines and scheduled tasks into combined
// blocks sorted by start time. Blocks are built fresh on every call. End
// times that would pass midnight clamp at 24:00.
func (c *Composer) Timeline(date timeutil.Date) ([]model.CombinedBlock, error) {
	routines, err := c.RoutinesFor(date)
	if err != nil {
		return nil, err
	}
	tasks, err := c.tasksFor(date)
	if err != nil {
		return nil, err
	}

	blocks := make([]model.CombinedBlock, 0, len(routines)+len(tasks))
	for i := range routines {
		r := routines[i]
		blocks = append(blocks, model.CombinedBlock{
			ID:        r.ID,
			Title:     r.Name,
			Icon:      r.Icon,
			Color:     r.Color,
			StartTime: r.Time,
			EndTime:   r.Time.Add(r.Duration),
			Duration:  r.Duration,
			IsRoutine: true,
			Source:    model.BlockSource{Routine: &routines[i]},
		})
	}
	for i := range tasks {
		task := tasks[i]
		color := model.ColorNeutral
		if task.Focus {
			color = model.ColorRed
		}
		blocks = append(blocks, model.CombinedBlock{
			ID:        task.ID,
			Title:     task.Title,
			Color:     color,
			StartTime: *task.StartTime,
			EndTime:   task.StartTime.Add(taskBlockDuration),
			Duration:  taskBlockDuration,
			Source:    model.BlockSource{Task: &tasks[i]},
		})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].StartTime < blocks[j].StartTime
	})
	return blocks, nil
}

// OverlapReport lists every pair of blocks that occupy the same time.
type OverlapReport struct {
	HasOverlap bool
	Pairs      [][2]model.CombinedBlock
}

// Overlap checks every unordered pair of blocks for a time conflict.
// Intervals are half open: a block ending at 10:00 does not overlap one
// starting at 10:00. Quadratic, which is fine for a day's worth of blocks.
func Overlap(blocks []model.CombinedBlock) OverlapReport {
	var report OverlapReport
	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			a, b := blocks[i], blocks[j]
			if (a.StartTime <= b.StartTime && b.StartTime < a.EndTime) ||
				(b.StartTime <= a.StartTime && a.StartTime < b.EndTime) {
				report.HasOverlap = true
				report.Pairs = append(report.Pairs, [2]model.CombinedBlock{a, b})
			}
		}
	}
	return report
}

// SuggestRoutines looks for hours where the user keeps scheduling tasks and
// proposes a routine for each. Plain counting with a fixed threshold, no
// decay or per-user calibration.
func (c *Composer) SuggestRoutines() ([]model.DailyRoutine, error) {
	tasks, err := c.tasks.All()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	counts := make(map[timeutil.Clock]int)
	for _, task := range tasks {
		if task.StartTime == nil {
			continue
		}
		counts[task.StartTime.TruncateHour()]++
	}

	var suggestions []model.DailyRoutine
	for hour, count := range counts {
		if count < suggestionThreshold {
			continue
		}
		name, color := suggestionStyle(hour.Hour())
		suggestions = append(suggestions, model.DailyRoutine{
			ID:       uuid.NewString(),
			Name:     name,
			Icon:     model.IconNote,
			Time:     hour,
			Duration: 60,
			Repeat:   model.RepeatWeekday,
			Color:    color,
			Notes:    fmt.Sprintf("Suggested from %d similarly timed tasks", count),
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Time < suggestions[j].Time
	})
	return suggestions, nil
}

// suggestionStyle names a suggestion by its time-of-day bracket.
func suggestionStyle(hour int) (string, model.Color) {
	switch {
	case hour >= 5 && hour < 12:
		return "Morning task block", model.ColorYellow
	case hour >= 12 && hour < 17:
		return "Afternoon task block", model.ColorOrange
	case hour >= 17 && hour < 22:
		return "Evening task block", model.ColorIndigo
	}
	return "Scheduled task block", model.ColorPurple
}
