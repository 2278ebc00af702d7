package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/order"
	"gtodo/internal/service"
	"gtodo/internal/tasklist"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements an interactive session. Unlike the one-shot commands
// it keeps a single synchronizer alive, so edit mode spans several inputs.
// The list is redrawn whenever the synchronizer publishes a snapshot.
type ShellCmd struct {
	in io.Reader
}

// SetInput sets the input reader (for testing).
func (c *ShellCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *ShellCmd) Name() string      { return "shell" }
func (c *ShellCmd) Aliases() []string { return []string{"sh"} }
func (c *ShellCmd) Synopsis() string  { return "Interactive session" }
func (c *ShellCmd) Usage() string     { return "gtodo shell" }
func (c *ShellCmd) NeedsStore() bool  { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	cmp, err := order.Lookup(cfg.Settings.Order)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	sh := &shell{ctx: ctx, cfg: cfg, cmp: cmp, out: out, errOut: errOut}
	tl, _, code := newSession(ctx, cfg, svc, errOut, tasklist.WithPublisher(sh.render))
	if code != exitcode.Success {
		return code
	}
	sh.tl = tl

	scanner := bufio.NewScanner(in)
	for {
		if !cfg.Quiet {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() || ctx.Err() != nil {
			break
		}
		if !sh.exec(scanner.Text()) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

type shell struct {
	ctx    context.Context
	cfg    *config.Config
	tl     *tasklist.Synchronizer
	cmp    order.Comparator
	out    io.Writer
	errOut io.Writer
}

// exec runs one input line. It returns false when the session should end.
func (sh *shell) exec(line string) bool {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	verb, rest := fields[0], fields[1:]
	text := strings.TrimSpace(strings.TrimPrefix(line, verb))

	var err error
	switch verb {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
	case "list", "ls":
		sh.render(sh.tl.Snapshot())
	case "reload":
		_, err = sh.tl.Load(sh.ctx)
	case "buffer":
		fmt.Fprintf(sh.out, "%q\n", sh.tl.Buffer())
	case "set":
		sh.tl.SetBuffer(text)
	case "add":
		// A bare "add" commits the buffer as is.
		if text != "" {
			sh.tl.SetBuffer(text)
		}
		_, err = sh.tl.Add(sh.ctx)
	case "save":
		_, err = sh.tl.Add(sh.ctx)
	case "cancel":
		sh.tl.CancelEdit()
	case "edit":
		err = sh.withRef(rest, func(id string) error {
			_, err := sh.tl.BeginEdit(id)
			return err
		})
	case "fav", "star":
		err = sh.withRefAction(rest, (*tasklist.Synchronizer).ToggleFavorite)
	case "done", "complete":
		err = sh.withRefAction(rest, (*tasklist.Synchronizer).Complete)
	case "restore", "undone":
		err = sh.withRefAction(rest, (*tasklist.Synchronizer).Restore)
	case "rm", "delete":
		err = sh.withRefAction(rest, (*tasklist.Synchronizer).Delete)
	default:
		fmt.Fprintf(sh.errOut, "error: unknown command: %s\n", verb)
	}

	if err != nil {
		reportError(sh.errOut, err)
	}
	return true
}

// withRef resolves a row number against the current order.
func (sh *shell) withRef(args []string, fn func(id string) error) error {
	num, err := ParseTaskRef(args)
	if err != nil {
		return err
	}
	task, err := findTaskByNumber(sh.tl.Snapshot(), num)
	if err != nil {
		return err
	}
	return fn(task.ID)
}

func (sh *shell) withRefAction(args []string, action refAction) error {
	return sh.withRef(args, func(id string) error {
		_, err := action(sh.tl, sh.ctx, id)
		return err
	})
}

func (sh *shell) render(snap tasklist.Snapshot) {
	renderer(sh.cfg).FormatList(sh.out, order.Rows(snap.Tasks, sh.cmp), snap.EditMode)
	if snap.EditMode.IsEditing {
		fmt.Fprintf(sh.out, "buffer: %q\n", snap.Buffer)
	}
}

const shellHelp = `Commands:
  list                 Show tasks
  add <name...>        Create a task, or rename the edited task
  edit <n>             Start editing task n
  set <name...>        Replace the edit buffer
  save                 Commit the edit buffer
  cancel               Stop editing
  buffer               Show the edit buffer
  fav <n>              Toggle favorite
  done <n>             Mark completed
  restore <n>          Reopen a completed task
  rm <n>               Delete
  reload               Fetch the list again
  quit                 Leave the shell
`
