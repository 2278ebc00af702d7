package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/order"
	"gtodo/internal/service"
)

func init() {
	Register(&SettingsCmd{})
}

// SettingsCmd prints or changes settings.yaml.
type SettingsCmd struct{}

func (c *SettingsCmd) Name() string      { return "settings" }
func (c *SettingsCmd) Aliases() []string { return []string{"config"} }
func (c *SettingsCmd) Synopsis() string  { return "Show or change settings" }
func (c *SettingsCmd) Usage() string     { return "gtodo settings [set <key> <value>]" }
func (c *SettingsCmd) NeedsStore() bool  { return false }

func (c *SettingsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SettingsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		for _, key := range config.Keys {
			value, _ := cfg.Settings.Get(key)
			fmt.Fprintf(out, "%s: %s\n", key, value)
		}
		return exitcode.Success
	}

	if args[0] != "set" {
		fmt.Fprintf(errOut, "error: unknown subcommand: %s\n", args[0])
		return exitcode.UserError
	}
	if len(args) != 3 {
		fmt.Fprintf(errOut, "usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	key, value := args[1], args[2]

	// Start from the file, not cfg.Settings, so environment overrides are
	// not persisted.
	s, err := config.LoadSettings(cfg.SettingsPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if err := s.Set(key, value); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if key == "order" {
		if _, err := order.Lookup(s.Order); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := s.Save(cfg.SettingsPath()); err != nil {
		fmt.Fprintf(errOut, "error: failed to save settings: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
