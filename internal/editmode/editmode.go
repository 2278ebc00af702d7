// Package editmode tracks which single task, if any, is being edited.
package editmode

import (
	"errors"
	"fmt"
	"sync"

	"gtodo/internal/service"
)

// ErrLocked is returned when an intent targets a task other than the one
// being edited.
var ErrLocked = errors.New("another task is being edited")

// Controller is a two-state machine: Idle, or Editing a single task.
// The zero value is Idle and ready to use.
type Controller struct {
	mu    sync.Mutex
	state service.EditMode
}

// Current returns the current edit mode.
func (c *Controller) Current() service.EditMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Begin starts editing id. Beginning again on the task already being
// edited is allowed.
func (c *Controller) Begin(id string) error {
	if id == "" {
		return errors.New("task id required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.allowLocked(id); err != nil {
		return err
	}
	c.state = service.EditMode{ID: id, IsEditing: true}
	return nil
}

// Allow reports whether an intent for id may proceed.
func (c *Controller) Allow(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allowLocked(id)
}

// Finish returns to Idle after an intent for id completed.
// It is a no-op when Idle.
func (c *Controller) Finish(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.allowLocked(id); err != nil {
		return err
	}
	c.state = service.EditMode{}
	return nil
}

// Cancel returns to Idle unconditionally.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.state = service.EditMode{}
	c.mu.Unlock()
}

func (c *Controller) allowLocked(id string) error {
	if c.state.IsEditing && c.state.ID != id {
		return fmt.Errorf("%w: %s", ErrLocked, c.state.ID)
	}
	return nil
}
