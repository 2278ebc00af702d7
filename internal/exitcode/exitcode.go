// Package exitcode defines exit codes for the CLI.
package exitcode

// Process exit codes.
const (
	Success = 0

	// UserError covers bad arguments, unknown task references, edit-mode
	// conflicts and invalid done/open transitions.
	UserError = 1

	// AuthError indicates an auth or config error.
	AuthError = 2

	// BackendError indicates a store, API or network error.
	BackendError = 3
)
