package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/progress"
	"github.com/coderno/planner/internal/repo"
	"github.com/coderno/planner/internal/timeutil"
)

// TaskService manages the task lifecycle. Completing a task feeds the
// progress engine.
type TaskService struct {
	tasks  *repo.Tasks
	engine *progress.Engine
	now    func() time.Time
}

func NewTaskService(tasks *repo.Tasks, engine *progress.Engine) *TaskService {
	return &TaskService{tasks: tasks, engine: engine, now: time.Now}
}

// WithClock overrides the service's notion of now.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// Create stores a new task with a generated id. Subtask titles become
// unchecked subtasks; blank ones are skipped.
func (s *TaskService) Create(title, description string, startTime *timeutil.Clock, focus bool, subtaskTitles []string) (model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return model.Task{}, ErrEmptyTitle
	}

	task := model.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		StartTime:   startTime,
		Status:      model.StatusTodo,
		Focus:       focus,
		CreatedAt:   s.now().Format(time.RFC3339),
	}
	for _, st := range subtaskTitles {
		st = strings.TrimSpace(st)
		if st == "" {
			continue
		}
		task.Subtasks = append(task.Subtasks, model.Subtask{ID: uuid.NewString(), Title: st})
	}

	if err := s.tasks.Save(task); err != nil {
		return model.Task{}, fmt.Errorf("save task: %w", err)
	}
	return task, nil
}

// List returns every task sorted by start time; tasks without one come
// last, in storage order.
func (s *TaskService) List() ([]model.Task, error) {
	tasks, err := s.tasks.All()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].StartTime, tasks[j].StartTime
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a < *b
	})
	return tasks, nil
}

// ForDate returns the tasks created on the given calendar day, in the List
// order.
func (s *TaskService) ForDate(date timeutil.Date) ([]model.Task, error) {
	tasks, err := s.List()
	if err != nil {
		return nil, err
	}
	var out []model.Task
	for _, task := range tasks {
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

// Today returns today's tasks.
func (s *TaskService) Today() ([]model.Task, error) {
	return s.ForDate(timeutil.DateOf(s.now()))
}

// Tomorrow returns tomorrow's tasks.
func (s *TaskService) Tomorrow() ([]model.Task, error) {
	return s.ForDate(timeutil.DateOf(s.now()).AddDays(1))
}

// MarkDone completes the task, cascades to its subtasks and records the
// completion in the progress engine. Marking an already done task again is
// a no-op.
func (s *TaskService) MarkDone(id string) error {
	task, err := s.tasks.Get(id)
	if err != nil {
		return err
	}
	if task.Status == model.StatusDone {
		return nil
	}

	task.Status = model.StatusDone
	for i := range task.Subtasks {
		task.Subtasks[i].Done = true
	}
	if err := s.tasks.Update(*task); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return s.engine.TrackCompletedTask()
}

// ToggleSubtask flips one subtask and derives the task status from the
// checklist: all done means done, any done means in progress, none done
// means todo. A transition into done counts as a completed task.
func (s *TaskService) ToggleSubtask(taskID, subtaskID string) error {
	task, err := s.tasks.Get(taskID)
	if err != nil {
		return err
	}

	found := false
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Done = !task.Subtasks[i].Done
			found = true
			break
		}
	}
	if !found {
		return repo.ErrNotFound
	}

	wasDone := task.Status == model.StatusDone
	task.Status = statusFromSubtasks(task.Subtasks)
	if err := s.tasks.Update(*task); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if !wasDone && task.Status == model.StatusDone {
		return s.engine.TrackCompletedTask()
	}
	return nil
}

func statusFromSubtasks(subtasks []model.Subtask) model.TaskStatus {
	done := 0
	for _, st := range subtasks {
		if st.Done {
			done++
		}
	}
	switch {
	case len(subtasks) > 0 && done == len(subtasks):
		return model.StatusDone
	case done > 0:
		return model.StatusInProgress
	}
	return model.StatusTodo
}

// ToggleFocus flips the task's focus flag.
func (s *TaskService) ToggleFocus(id string) error {
	task, err := s.tasks.Get(id)
	if err != nil {
		return err
	}
	task.Focus = !task.Focus
	return s.tasks.Update(*task)
}

// Update replaces the stored task.
func (s *TaskService) Update(task model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return ErrEmptyTitle
	}
	return s.tasks.Update(task)
}

// Delete removes the task.
func (s *TaskService) Delete(id string) error {
	return s.tasks.Delete(id)
}

// Reorder rewrites the collection in the order of ids. Tasks not named keep
// their relative order after the named ones; unknown ids are ignored.
func (s *TaskService) Reorder(ids []string) error {
	tasks, err := s.tasks.All()
	if err != nil {
		return err
	}

	byID := make(map[string]model.Task, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}

	ordered := make([]model.Task, 0, len(tasks))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if task, ok := byID[id]; ok && !seen[id] {
			ordered = append(ordered, task)
			seen[id] = true
		}
	}
	for _, task := range tasks {
		if !seen[task.ID] {
			ordered = append(ordered, task)
		}
	}
	return s.tasks.ReplaceAll(ordered)
}
