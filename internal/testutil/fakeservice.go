// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"gtodo/internal/service"
)

// ErrNotFound is returned when a task is not found.
var ErrNotFound = fmt.Errorf("fake: %w", service.ErrNotFound)

// FakeService is an in-memory implementation of service.Service for testing.
// It counts calls per method and returns injected errors when set.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int

	// Error injection for testing
	CreateTaskErr error
	ListTasksErr  error
	UpdateTaskErr error
	DeleteTaskErr error

	// BeforeList runs at the start of ListTasks, outside the lock.
	BeforeList func()

	// RowCount, when non-zero, is reported instead of the real count.
	RowCount int

	calls map[string]int
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1, calls: make(map[string]int)}
}

// AddTask seeds a task without counting a call.
func (f *FakeService) AddTask(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task.Clone())
	if n, err := strconv.Atoi(task.ID); err == nil && n >= f.nextID {
		f.nextID = n + 1
	}
}

// Task returns the stored task with the given ID.
func (f *FakeService) Task(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return service.Task{}, false
}

// Calls returns how many times method was called.
func (f *FakeService) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *FakeService) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) count(method string) {
	f.calls[method]++
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, name string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}

	task := service.Task{ID: strconv.Itoa(f.nextID), Name: name, Tags: []string{}}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task.Clone(), nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) (service.Collection, error) {
	if f.BeforeList != nil {
		f.BeforeList()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("ListTasks")
	if f.ListTasksErr != nil {
		return service.Collection{}, f.ListTasksErr
	}

	result := make([]service.Task, len(f.tasks))
	for i, t := range f.tasks {
		result[i] = t.Clone()
	}
	rows := len(result)
	if f.RowCount != 0 {
		rows = f.RowCount
	}
	return service.Collection{Tasks: result, RowCount: rows}, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, task service.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("UpdateTask")
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}

	for i, t := range f.tasks {
		if t.ID == task.ID {
			f.tasks[i] = task.Clone()
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
