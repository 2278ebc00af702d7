package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd prints one line per registered command followed by the flags
// every store command accepts.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "gtodo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	writeHelp(out, DefaultRegistry)
	return exitcode.Success
}

func writeHelp(w io.Writer, r *Registry) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %-38s %s\n", "gtodo", "List tasks")
	for _, c := range r.All() {
		synopsis := c.Synopsis()
		if aliases := c.Aliases(); len(aliases) > 0 {
			synopsis += " (also: " + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(w, "  %-38s %s\n", c.Usage(), synopsis)
	}
	fmt.Fprint(w, helpFooter)
}

const helpFooter = `
<n> is the row number printed by list. Orders: favorites, recent, name, id.

Common flags:
  --config <dir>     Override config directory
  --backend <name>   Task store: google or sqlite
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
