// Package progress turns the flat, date-keyed progress records into weekly
// rollups, a streak state machine, a best-day pick and an average focus
// statistic. Everything except the streak is a pure derivation over the
// stored records.
package progress

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/repo"
	"github.com/coderno/planner/internal/timeutil"
)

// Engine aggregates progress records. The clock is injectable so tests can
// pin "today".
type Engine struct {
	records *repo.Progress
	now     func() time.Time
}

func NewEngine(records *repo.Progress) *Engine {
	return &Engine{records: records, now: time.Now}
}

// WithClock overrides the engine's notion of now.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) today() timeutil.Date {
	return timeutil.DateOf(e.now())
}

// WeeklySummaries groups the records in [start, end] (both inclusive) into
// Sunday-aligned weeks. Empty bounds default to the start of the current
// week and today. Weeks with no records produce no entry; the result is
// sorted newest week first and each week's daily records ascend by date.
func (e *Engine) WeeklySummaries(start, end timeutil.Date) ([]model.WeeklySummary, error) {
	today := e.today()
	if start == "" {
		start = today.WeekStart()
	}
	if end == "" {
		end = today
	}

	records, err := e.records.RecordsInRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	byWeek := make(map[timeutil.Date][]model.ProgressRecord)
	for _, rec := range records {
		ws := rec.Date.WeekStart()
		byWeek[ws] = append(byWeek[ws], rec)
	}

	summaries := make([]model.WeeklySummary, 0, len(byWeek))
	for weekStart, daily := range byWeek {
		sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

		summary := model.WeeklySummary{
			WeekStart: weekStart,
			WeekEnd:   weekStart.AddDays(6),
			DailyData: daily,
		}
		for _, day := range daily {
			summary.TotalTasksCompleted += day.TasksCompleted
			summary.TotalPomodoroSessions += day.PomodoroSessions
			summary.TotalFocusMinutes += day.FocusMinutes
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].WeekStart > summaries[j].WeekStart
	})
	return summaries, nil
}

// isActive is the activity predicate of the streak machine: a day counts
// when it has a record with completed tasks or focus minutes.
func isActive(rec *model.ProgressRecord) bool {
	return rec != nil && (rec.TasksCompleted > 0 || rec.FocusMinutes > 0)
}

// nextStreak applies one streak transition. Pure; persistence is the
// caller's job.
//
// Transition table, driven by whether the user is active today and where
// the last active date sits relative to today:
//
//	active, last == yesterday  -> streak continues, +1
//	active, last != today      -> new streak of 1
//	active, last == today      -> unchanged (idempotent re-entry)
//	idle, last before yesterday-> streak confirmed broken, reset to 0
//	idle, last today/yesterday -> untouched (grace period)
//
// LastActiveDate moves to today only on the active branches, and
// LongestStreak is re-raised on every call.
func nextStreak(cur model.StreakRecord, activeToday bool, today timeutil.Date) model.StreakRecord {
	yesterday := today.AddDays(-1)
	next := cur

	if activeToday {
		switch cur.LastActiveDate {
		case yesterday:
			next.CurrentStreak++
		case today:
			// Already counted today.
		default:
			next.CurrentStreak = 1
		}
		next.LastActiveDate = today
	} else if cur.LastActiveDate != "" && cur.LastActiveDate != today && cur.LastActiveDate != yesterday {
		next.CurrentStreak = 0
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	return next
}

// Streak advances the streak state machine against today's activity and
// persists the result. This is deliberately both a query and a mutator:
// callers that only want to display the streak still move the machine
// forward, which is safe because same-day re-entry is idempotent.
func (e *Engine) Streak() (model.StreakRecord, error) {
	cur, err := e.records.Streak()
	if err != nil {
		return model.StreakRecord{}, fmt.Errorf("load streak: %w", err)
	}

	today := e.today()
	todayRec, err := e.records.RecordFor(today)
	if err != nil {
		return model.StreakRecord{}, fmt.Errorf("load today's record: %w", err)
	}

	next := nextStreak(cur, isActive(todayRec), today)
	if next != cur {
		if err := e.records.SaveStreak(next); err != nil {
			return model.StreakRecord{}, fmt.Errorf("save streak: %w", err)
		}
	}
	return next, nil
}

// BestDay returns the record with the highest activity score, or nil when
// no records exist. Ties keep the first record in storage order.
func (e *Engine) BestDay() (*model.BestDay, error) {
	records, err := e.records.Records()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	best := records[0]
	bestScore := score(best)
	for _, rec := range records[1:] {
		if s := score(rec); s > bestScore {
			best, bestScore = rec, s
		}
	}
	return &model.BestDay{
		Date:           best.Date,
		TasksCompleted: best.TasksCompleted,
		FocusMinutes:   best.FocusMinutes,
	}, nil
}

// score weights completed tasks heavily over raw focus time.
func score(rec model.ProgressRecord) float64 {
	return float64(rec.TasksCompleted)*10 + float64(rec.FocusMinutes)*0.5
}

// AverageFocusTime is the mean focus minutes over days that logged any
// focus time, rounded to the nearest minute. Zero when no day qualifies.
func (e *Engine) AverageFocusTime() (int, error) {
	records, err := e.records.Records()
	if err != nil {
		return 0, fmt.Errorf("load records: %w", err)
	}

	total, days := 0, 0
	for _, rec := range records {
		if rec.FocusMinutes > 0 {
			total += rec.FocusMinutes
			days++
		}
	}
	if days == 0 {
		return 0, nil
	}
	return int(math.Round(float64(total) / float64(days))), nil
}

// Stats bundles weekly summaries, streak, best day and average focus time.
// This is the read path the progress view uses.
func (e *Engine) Stats(start, end timeutil.Date) (*model.ProgressStats, error) {
	weekly, err := e.WeeklySummaries(start, end)
	if err != nil {
		return nil, err
	}
	streak, err := e.Streak()
	if err != nil {
		return nil, err
	}
	bestDay, err := e.BestDay()
	if err != nil {
		return nil, err
	}
	avg, err := e.AverageFocusTime()
	if err != nil {
		return nil, err
	}
	return &model.ProgressStats{
		Weekly:           weekly,
		Streak:           streak,
		BestDay:          bestDay,
		AverageFocusTime: avg,
	}, nil
}

// TrackCompletedTask bumps today's completed-task counter.
func (e *Engine) TrackCompletedTask() error {
	return e.track(func(rec *model.ProgressRecord) {
		rec.TasksCompleted++
	})
}

// TrackPomodoroSession records one finished work session and the focus
// minutes it contributed.
func (e *Engine) TrackPomodoroSession(minutes int) error {
	return e.track(func(rec *model.ProgressRecord) {
		rec.PomodoroSessions++
		rec.FocusMinutes += minutes
	})
}

// TrackFocusTime adds logged focus minutes to today's record.
func (e *Engine) TrackFocusTime(minutes int) error {
	return e.track(func(rec *model.ProgressRecord) {
		rec.FocusMinutes += minutes
	})
}

// track upserts today's record through apply and advances the streak.
// These mutators are the only writers of progress records.
func (e *Engine) track(apply func(*model.ProgressRecord)) error {
	today := e.today()
	existing, err := e.records.RecordFor(today)
	if err != nil {
		return fmt.Errorf("load today's record: %w", err)
	}

	rec := model.ProgressRecord{Date: today}
	if existing != nil {
		rec = *existing
	}
	apply(&rec)

	if err := e.records.SaveRecord(rec); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	_, err = e.Streak()
	return err
}
