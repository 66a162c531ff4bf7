package repo

import (
	"github.com/coderno/planner/internal/kv"
	"github.com/coderno/planner/internal/model"
)

// Tasks owns the task collection.
type Tasks struct {
	store *kv.Store
}

func NewTasks(store *kv.Store) *Tasks {
	return &Tasks{store: store}
}

// All returns every stored task in storage order.
func (r *Tasks) All() ([]model.Task, error) {
	var tasks []model.Task
	if err := loadJSON(r.store, keyTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get returns the task with the given id.
func (r *Tasks) Get(id string) (*model.Task, error) {
	tasks, err := r.All()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, ErrNotFound
}

// Save inserts the task, or replaces the stored task with the same id.
func (r *Tasks) Save(task model.Task) error {
	tasks, err := r.All()
	if err != nil {
		return err
	}
	replaced := false
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = task
			replaced = true
			break
		}
	}
	if !replaced {
		tasks = append(tasks, task)
	}
	return saveJSON(r.store, keyTasks, tasks)
}

// Update replaces an existing task; ErrNotFound if the id is unknown.
func (r *Tasks) Update(task model.Task) error {
	tasks, err := r.All()
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = task
			return saveJSON(r.store, keyTasks, tasks)
		}
	}
	return ErrNotFound
}

// Delete removes the task with the given id; ErrNotFound if absent.
func (r *Tasks) Delete(id string) error {
	tasks, err := r.All()
	if err != nil {
		return err
	}
	kept := tasks[:0]
	found := false
	for _, t := range tasks {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return ErrNotFound
	}
	return saveJSON(r.store, keyTasks, kept)
}

// ReplaceAll overwrites the whole collection, preserving the given order.
// Used by reordering.
func (r *Tasks) ReplaceAll(tasks []model.Task) error {
	return saveJSON(r.store, keyTasks, tasks)
}
