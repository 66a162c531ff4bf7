package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/coderno/planner/internal/model"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Records    []jsonRecord `json:"records"`
}

type jsonRecord struct {
	Date             string `json:"date"`
	TasksCompleted   int    `json:"tasks_completed"`
	PomodoroSessions int    `json:"pomodoro_sessions"`
	FocusMinutes     int    `json:"focus_minutes"`
	Focus            string `json:"focus"`
}

func ToJSON(records []model.ProgressRecord, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
	}

	for _, rec := range records {
		export.Records = append(export.Records, jsonRecord{
			Date:             string(rec.Date),
			TasksCompleted:   rec.TasksCompleted,
			PomodoroSessions: rec.PomodoroSessions,
			FocusMinutes:     rec.FocusMinutes,
			Focus:            formatMinutes(rec.FocusMinutes),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
