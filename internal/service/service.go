// Package service defines the backend-agnostic task model and store interface.
package service

import (
	"context"
	"errors"
)

// ErrNotFound is returned (possibly wrapped) when the store has no task with
// the requested ID.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned (possibly wrapped) when the store rejects the
// stored credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Service defines the interface for the remote task store.
// Commands and the synchronizer never import a backend SDK directly.
type Service interface {
	// CreateTask stores a new open task with no tags and returns it with its
	// store-assigned ID.
	CreateTask(ctx context.Context, name string) (Task, error)

	// ListTasks returns every stored task. Backends that paginate drain all
	// pages before returning.
	ListTasks(ctx context.Context) (Collection, error)

	// UpdateTask replaces the stored task with the same ID in full.
	UpdateTask(ctx context.Context, task Task) error

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id string) error
}
