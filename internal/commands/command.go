// Package commands implements the gtodo subcommands. Store commands share
// one synchronizer per invocation (see session.go) and report failures with
// the exit codes in package exitcode.
package commands

import (
	"context"
	"flag"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/service"
)

// Command is one gtodo subcommand as seen by the dispatcher and help.
type Command interface {
	Name() string
	Aliases() []string

	// Synopsis and Usage feed the help listing.
	Synopsis() string
	Usage() string

	// NeedsStore reports whether Run is handed an open task store. When it
	// is false the store is never opened, so settings and logout work
	// without credentials.
	NeedsStore() bool

	// RegisterFlags adds flags beyond --config, --backend, --quiet and
	// --debug.
	RegisterFlags(fs *flag.FlagSet)

	// Run gets the positional arguments left after flag parsing and returns
	// an exit code. svc is nil unless NeedsStore is true.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}
