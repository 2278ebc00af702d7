package service

import "slices"

// Sentinel tags toggled or appended by task operations.
const (
	TagFavorite = "favorite"
	TagUpdated  = "updated"
)

// Task represents a single reminder.
type Task struct {
	ID             string
	Name           string
	IsDone         bool
	Tags           []string
	LastUpdateTime int64 // milliseconds since epoch
}

// HasTag reports whether the task carries tag.
func (t Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Clone returns a copy of t that shares no memory with it.
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = slices.Clone(t.Tags)
	}
	return c
}

// Collection is the full task set returned by a store.
type Collection struct {
	Tasks []Task

	// RowCount is whatever count the store reports. It is informational only;
	// callers count len(Tasks).
	RowCount int
}

// Find returns the task with the given ID.
func (c Collection) Find(id string) (Task, bool) {
	for _, t := range c.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// EditMode identifies the single task being edited, if any.
// The zero value means no task is being edited.
type EditMode struct {
	ID        string
	IsEditing bool
}
