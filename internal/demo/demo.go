// Package demo seeds the database with sample progress history and the
// default routine set, for trying the app out with something on screen.
package demo

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/repo"
	"github.com/coderno/planner/internal/timeutil"
)

// DefaultRoutines is the starter routine set written on demo seeding.
func DefaultRoutines() []model.DailyRoutine {
	return []model.DailyRoutine{
		{Name: "Morning routine", Icon: model.IconSun, Time: timeutil.ClockAt(7, 0), Duration: 45, Repeat: model.RepeatDaily, Color: model.ColorYellow},
		{Name: "Lunch break", Icon: model.IconMeal, Time: timeutil.ClockAt(13, 0), Duration: 30, Repeat: model.RepeatWeekday, Color: model.ColorGreen},
		{Name: "Rest and recharge", Icon: model.IconRest, Time: timeutil.ClockAt(18, 0), Duration: 60, Repeat: model.RepeatDaily, Color: model.ColorBlue},
		{Name: "Wind down", Icon: model.IconSleep, Time: timeutil.ClockAt(22, 0), Duration: 30, Repeat: model.RepeatDaily, Color: model.ColorIndigo},
	}
}

// Seed writes 14 days of plausible progress records ending today and the
// default routines. Existing progress records for those dates are
// overwritten; existing routines are kept.
func Seed(progress *repo.Progress, routines *repo.Routines, rng *rand.Rand) error {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	today := timeutil.DateOf(time.Now())
	for i := 13; i >= 0; i-- {
		date := today.AddDays(-i)

		// Busier weekdays, quieter weekends, plus a light jitter.
		tasksBase, focusBase, pomodoroBase := 3, 90, 4
		if date.IsWeekend() {
			tasksBase, focusBase, pomodoroBase = 1, 30, 1
		}
		factor := rng.Float64()*0.5 + 0.75

		rec := model.ProgressRecord{
			Date:             date,
			TasksCompleted:   int(float64(tasksBase) * factor),
			PomodoroSessions: int(float64(pomodoroBase) * factor),
			FocusMinutes:     int(float64(focusBase) * factor),
		}

		// The occasional blank day, but never among the most recent so the
		// streak reads as alive.
		if i > 2 && rng.Float64() < 0.2 {
			rec = model.ProgressRecord{Date: date}
		}

		if err := progress.SaveRecord(rec); err != nil {
			return fmt.Errorf("seed record %s: %w", date, err)
		}
	}

	existing, err := routines.All()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, r := range DefaultRoutines() {
		if err := routines.Save(r); err != nil {
			return fmt.Errorf("seed routine %q: %w", r.Name, err)
		}
	}
	return nil
}
