// Package export writes progress history to CSV and JSON files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/coderno/planner/internal/model"
)

func ToCSV(records []model.ProgressRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Tasks Completed", "Pomodoro Sessions", "Focus (min)", "Focus"}); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			string(rec.Date),
			fmt.Sprintf("%d", rec.TasksCompleted),
			fmt.Sprintf("%d", rec.PomodoroSessions),
			fmt.Sprintf("%d", rec.FocusMinutes),
			formatMinutes(rec.FocusMinutes),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
