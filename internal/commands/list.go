package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/order"
	"gtodo/internal/service"
	"gtodo/internal/tasklist"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command. It is also what `gtodo` with no
// arguments runs.
type ListCmd struct {
	orderName string
}

// SetOrder sets the order name (for testing).
func (c *ListCmd) SetOrder(name string) {
	c.orderName = name
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "gtodo list [--order <name>]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.orderName, "order", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	name := cfg.Settings.Order
	if c.orderName != "" {
		name = c.orderName
	}
	cmp, err := order.Lookup(name)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	_, snap, code := newSession(ctx, cfg, svc, errOut, tasklist.WithComparator(cmp))
	if code != exitcode.Success {
		return code
	}

	rows := order.Rows(snap.Tasks, cmp)
	if len(rows) == 0 && cfg.Quiet {
		return exitcode.Success
	}
	renderer(cfg).FormatList(out, rows, snap.EditMode)
	return exitcode.Success
}
