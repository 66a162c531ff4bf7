package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/progress"
	"github.com/coderno/planner/internal/repo"
)

const defaultFocusMinutes = 25

// FocusService runs the single deep-work session: one task, a checklist of
// its subtasks, elapsed time fed to the progress engine on completion.
type FocusService struct {
	focus  *repo.Focus
	tasks  *repo.Tasks
	engine *progress.Engine
	now    func() time.Time
}

func NewFocusService(focus *repo.Focus, tasks *repo.Tasks, engine *progress.Engine) *FocusService {
	return &FocusService{focus: focus, tasks: tasks, engine: engine, now: time.Now}
}

// WithClock overrides the service's notion of now.
func (s *FocusService) WithClock(now func() time.Time) *FocusService {
	s.now = now
	return s
}

// Current returns the active session, or nil when there is none.
func (s *FocusService) Current() (*model.FocusSession, error) {
	return s.focus.Current()
}

// Start begins a focus session on the task. A dangling session for a
// different task is completed first so its elapsed time is not lost;
// restarting on the same task returns the running session. Non-positive
// minutes fall back to the default.
func (s *FocusService) Start(taskID string, minutes int) (model.FocusSession, error) {
	task, err := s.tasks.Get(taskID)
	if err != nil {
		return model.FocusSession{}, err
	}
	if minutes <= 0 {
		minutes = defaultFocusMinutes
	}

	current, err := s.focus.Current()
	if err != nil {
		return model.FocusSession{}, err
	}
	if current != nil {
		if current.TaskID == taskID {
			return *current, nil
		}
		if err := s.Complete(); err != nil {
			return model.FocusSession{}, fmt.Errorf("complete dangling session: %w", err)
		}
	}

	session := model.FocusSession{
		ID:              uuid.NewString(),
		TaskID:          taskID,
		StartTime:       s.now().Format(time.RFC3339),
		Duration:        minutes,
		SubtaskProgress: make(map[string]bool, len(task.Subtasks)),
	}
	for _, st := range task.Subtasks {
		session.SubtaskProgress[st.ID] = st.Done
	}
	if err := s.focus.Save(session); err != nil {
		return model.FocusSession{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// ToggleSubtask flips a subtask inside the running session and mirrors the
// change to the stored task, deriving the task status from the checklist.
func (s *FocusService) ToggleSubtask(subtaskID string) error {
	session, err := s.focus.Current()
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNoActiveSession
	}
	if _, ok := session.SubtaskProgress[subtaskID]; !ok {
		return repo.ErrNotFound
	}
	session.SubtaskProgress[subtaskID] = !session.SubtaskProgress[subtaskID]
	if err := s.focus.Save(*session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	task, err := s.tasks.Get(session.TaskID)
	if err != nil {
		return err
	}
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Done = session.SubtaskProgress[subtaskID]
			break
		}
	}
	task.Status = statusFromSubtasks(task.Subtasks)
	return s.tasks.Update(*task)
}

// Complete finishes the running session and records its elapsed minutes as
// focus time.
func (s *FocusService) Complete() error {
	session, err := s.focus.Current()
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNoActiveSession
	}

	session.Completed = true
	if err := s.focus.Save(*session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if minutes := s.elapsedMinutes(*session); minutes > 0 {
		return s.engine.TrackFocusTime(minutes)
	}
	return nil
}

// Cancel drops the running session without recording anything.
func (s *FocusService) Cancel() error {
	session, err := s.focus.Current()
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNoActiveSession
	}
	return s.focus.Clear()
}

// Report describes how far along the running session is.
type Report struct {
	ElapsedMinutes   int
	RemainingMinutes int
	PercentComplete  int // subtasks done, or time-based when the task has none
}

// Progress reports on the running session.
func (s *FocusService) Progress() (*Report, error) {
	session, err := s.focus.Current()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	elapsed := s.elapsedMinutes(*session)
	remaining := session.Duration - elapsed
	if remaining < 0 {
		remaining = 0
	}

	percent := 0
	if len(session.SubtaskProgress) > 0 {
		done := 0
		for _, d := range session.SubtaskProgress {
			if d {
				done++
			}
		}
		percent = done * 100 / len(session.SubtaskProgress)
	} else if session.Duration > 0 {
		percent = elapsed * 100 / session.Duration
		if percent > 100 {
			percent = 100
		}
	}
	return &Report{ElapsedMinutes: elapsed, RemainingMinutes: remaining, PercentComplete: percent}, nil
}

func (s *FocusService) elapsedMinutes(session model.FocusSession) int {
	started, err := time.Parse(time.RFC3339, session.StartTime)
	if err != nil {
		return 0
	}
	elapsed := int(s.now().Sub(started).Minutes())
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
