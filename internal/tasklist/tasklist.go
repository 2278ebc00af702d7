// Package tasklist keeps a local mirror of the task store consistent with it.
//
// Every mutation follows the same pipeline: compose the new task from the
// cached copy, submit it to the store, then fetch the whole collection again
// and replace the cache with it. The cache is never patched in place, and a
// failed call leaves it as it was.
//
// State is guarded by a mutex that is never held across a store call, so two
// operations started back to back interleave and the last fetch to complete
// wins the published snapshot.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"gtodo/internal/config"
	"gtodo/internal/editmode"
	"gtodo/internal/logging"
	"gtodo/internal/order"
	"gtodo/internal/service"
)

var (
	// ErrTaskNotFound is returned when an intent names a task that is not in
	// the local cache, e.g. a stale row after a delete.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTransition is returned for Complete on a done task or Restore
	// on an open one.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Settings is the session configuration handed to the synchronizer.
type Settings struct {
	Locale config.Locale
}

// Snapshot is the read-only view published after each change.
type Snapshot struct {
	Tasks      []service.Task // render order
	EditMode   service.EditMode
	TotalCount int
	Buffer     string
	Locale     config.Locale
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithSettings sets the session settings.
func WithSettings(s Settings) Option {
	return func(sy *Synchronizer) { sy.settings = s }
}

// WithComparator sets the row order used for snapshots.
func WithComparator(c order.Comparator) Option {
	return func(sy *Synchronizer) {
		if c != nil {
			sy.cmp = c
		}
	}
}

// WithClock replaces time.Now for LastUpdateTime stamps.
func WithClock(now func() time.Time) Option {
	return func(sy *Synchronizer) {
		if now != nil {
			sy.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Entry) Option {
	return func(sy *Synchronizer) {
		if l != nil {
			sy.log = l
		}
	}
}

// WithPublisher registers a callback that receives every new snapshot.
func WithPublisher(fn func(Snapshot)) Option {
	return func(sy *Synchronizer) { sy.publish = fn }
}

// Synchronizer orchestrates task mutations against a service.Service.
type Synchronizer struct {
	svc      service.Service
	edit     editmode.Controller
	cmp      order.Comparator
	now      func() time.Time
	log      *logrus.Entry
	publish  func(Snapshot)
	settings Settings

	mu     sync.Mutex
	cache  []service.Task
	buffer string
}

// New creates a Synchronizer with an empty cache and no task being edited.
// Call Load to populate the cache.
func New(svc service.Service, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		svc:      svc,
		cmp:      order.Favorites,
		now:      time.Now,
		log:      logging.Discard(),
		settings: Settings{Locale: config.LocaleEN},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current view.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// EditMode returns the current edit mode.
func (s *Synchronizer) EditMode() service.EditMode {
	return s.edit.Current()
}

// Buffer returns the working name buffer.
func (s *Synchronizer) Buffer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// SetBuffer replaces the working name buffer.
func (s *Synchronizer) SetBuffer(name string) {
	s.mu.Lock()
	s.buffer = name
	s.mu.Unlock()
}

// Load fetches the collection and replaces the cache.
func (s *Synchronizer) Load(ctx context.Context) (Snapshot, error) {
	return s.refresh(ctx, "load")
}

// Add commits the buffer. When idle it creates a new task named after the
// buffer; while editing it renames the task being edited and leaves edit
// mode. An empty buffer is a no-op.
func (s *Synchronizer) Add(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	name := s.buffer
	if strings.TrimSpace(name) == "" {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	mode := s.edit.Current()
	var task service.Task
	if mode.IsEditing {
		cached, ok := s.findLocked(mode.ID)
		if !ok {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, fmt.Errorf("%w: %s", ErrTaskNotFound, mode.ID)
		}
		task = withName(cached, name, s.now())
	}
	s.mu.Unlock()

	if mode.IsEditing {
		s.logOp("edit", mode.ID).Debug("update task")
		if err := s.svc.UpdateTask(ctx, task); err != nil {
			return s.fail("edit", mode.ID, err)
		}
		s.finishEdit(mode.ID)
		return s.refresh(ctx, "edit")
	}

	s.logOp("add", "").Debug("create task")
	created, err := s.svc.CreateTask(ctx, name)
	if err != nil {
		return s.fail("add", "", err)
	}
	s.logOp("add", created.ID).Debug("task created")

	s.mu.Lock()
	if !s.edit.Current().IsEditing {
		s.buffer = ""
	}
	s.mu.Unlock()
	return s.refresh(ctx, "add")
}

// BeginEdit enters edit mode for id and seeds the buffer with its name.
func (s *Synchronizer) BeginEdit(id string) (Snapshot, error) {
	s.mu.Lock()
	cached, ok := s.findLocked(id)
	if !ok {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if err := s.edit.Begin(id); err != nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}
	s.buffer = cached.Name
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logOp("begin-edit", id).Debug("edit mode on")
	s.emit(snap)
	return snap, nil
}

// CancelEdit leaves edit mode and clears the buffer. No store call is made.
func (s *Synchronizer) CancelEdit() Snapshot {
	s.mu.Lock()
	s.edit.Cancel()
	s.buffer = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logOp("cancel-edit", "").Debug("edit mode off")
	s.emit(snap)
	return snap
}

// Delete removes a task. Deleting the task being edited leaves edit mode.
func (s *Synchronizer) Delete(ctx context.Context, id string) (Snapshot, error) {
	if _, err := s.lookup(id); err != nil {
		return s.Snapshot(), err
	}
	s.logOp("delete", id).Debug("delete task")
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		return s.fail("delete", id, err)
	}
	s.finishEdit(id)
	return s.refresh(ctx, "delete")
}

// ToggleFavorite adds the favorite tag when absent and removes it otherwise.
// LastUpdateTime is left unchanged.
func (s *Synchronizer) ToggleFavorite(ctx context.Context, id string) (Snapshot, error) {
	return s.update(ctx, "favorite", id, false, func(t service.Task) (service.Task, error) {
		return withFavoriteToggled(t), nil
	})
}

// Complete marks an open task done.
func (s *Synchronizer) Complete(ctx context.Context, id string) (Snapshot, error) {
	return s.update(ctx, "complete", id, false, func(t service.Task) (service.Task, error) {
		if t.IsDone {
			return t, fmt.Errorf("%w: task %s is already done", ErrInvalidTransition, t.ID)
		}
		return withDone(t, true, s.now()), nil
	})
}

// Restore reopens a done task and leaves edit mode.
func (s *Synchronizer) Restore(ctx context.Context, id string) (Snapshot, error) {
	return s.update(ctx, "restore", id, true, func(t service.Task) (service.Task, error) {
		if !t.IsDone {
			return t, fmt.Errorf("%w: task %s is not done", ErrInvalidTransition, t.ID)
		}
		return withDone(t, false, s.now()), nil
	})
}

// update runs the compose, submit, refetch pipeline for a single task.
func (s *Synchronizer) update(ctx context.Context, op, id string, finish bool, compose func(service.Task) (service.Task, error)) (Snapshot, error) {
	cached, err := s.lookup(id)
	if err != nil {
		return s.Snapshot(), err
	}
	task, err := compose(cached)
	if err != nil {
		return s.Snapshot(), err
	}

	s.logOp(op, id).Debug("update task")
	if err := s.svc.UpdateTask(ctx, task); err != nil {
		return s.fail(op, id, err)
	}
	if finish {
		s.finishEdit(id)
	}
	return s.refresh(ctx, op)
}

// lookup checks the edit lock and returns a private copy of the cached task.
func (s *Synchronizer) lookup(id string) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.edit.Allow(id); err != nil {
		return service.Task{}, err
	}
	t, ok := s.findLocked(id)
	if !ok {
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return t, nil
}

// finishEdit leaves edit mode if id was being edited. The buffer is only
// cleared when no other task has entered edit mode meanwhile.
func (s *Synchronizer) finishEdit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.edit.Finish(id); err != nil {
		return
	}
	s.buffer = ""
}

func (s *Synchronizer) refresh(ctx context.Context, op string) (Snapshot, error) {
	coll, err := s.svc.ListTasks(ctx)
	if err != nil {
		s.logOp(op, "").WithError(err).Debug("refresh failed")
		return s.Snapshot(), fmt.Errorf("refresh task list: %w", err)
	}

	tasks := make([]service.Task, len(coll.Tasks))
	for i, t := range coll.Tasks {
		tasks[i] = t.Clone()
	}

	s.mu.Lock()
	s.cache = tasks
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logOp(op, "").WithField("count", snap.TotalCount).Debug("task list refreshed")
	s.emit(snap)
	return snap, nil
}

func (s *Synchronizer) fail(op, id string, err error) (Snapshot, error) {
	s.logOp(op, id).WithError(err).Debug("store call failed")
	if id == "" {
		return s.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}
	return s.Snapshot(), fmt.Errorf("%s task %s: %w", op, id, err)
}

func (s *Synchronizer) findLocked(id string) (service.Task, bool) {
	for _, t := range s.cache {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return service.Task{}, false
}

func (s *Synchronizer) snapshotLocked() Snapshot {
	return Snapshot{
		Tasks:      order.Sort(s.cache, s.cmp),
		EditMode:   s.edit.Current(),
		TotalCount: len(s.cache),
		Buffer:     s.buffer,
		Locale:     s.settings.Locale,
	}
}

func (s *Synchronizer) emit(snap Snapshot) {
	if s.publish != nil {
		s.publish(snap)
	}
}

func (s *Synchronizer) logOp(op, id string) *logrus.Entry {
	fields := logrus.Fields{"op": op}
	if id != "" {
		fields["task_id"] = id
	}
	return s.log.WithFields(fields)
}
