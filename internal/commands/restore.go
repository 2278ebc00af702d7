package commands

import (
	"context"
	"flag"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/service"
	"gtodo/internal/tasklist"
)

func init() {
	Register(&RestoreCmd{})
}

// RestoreCmd implements the restore command.
type RestoreCmd struct{}

func (c *RestoreCmd) Name() string      { return "restore" }
func (c *RestoreCmd) Aliases() []string { return []string{"undone"} }
func (c *RestoreCmd) Synopsis() string  { return "Reopen a completed task" }
func (c *RestoreCmd) Usage() string     { return "gtodo restore <n>" }
func (c *RestoreCmd) NeedsStore() bool  { return true }

func (c *RestoreCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RestoreCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runRefAction(ctx, cfg, svc, args, out, errOut, (*tasklist.Synchronizer).Restore)
}
