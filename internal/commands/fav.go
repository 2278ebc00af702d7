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
	Register(&FavCmd{})
}

// FavCmd implements the fav command. Running it twice on the same task
// removes the favorite again.
type FavCmd struct{}

func (c *FavCmd) Name() string      { return "fav" }
func (c *FavCmd) Aliases() []string { return []string{"star"} }
func (c *FavCmd) Synopsis() string  { return "Toggle a task's favorite flag" }
func (c *FavCmd) Usage() string     { return "gtodo fav <n>" }
func (c *FavCmd) NeedsStore() bool  { return true }

func (c *FavCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *FavCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runRefAction(ctx, cfg, svc, args, out, errOut, (*tasklist.Synchronizer).ToggleFavorite)
}
