package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gtodo/internal/commands"
	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
	"gtodo/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	cfg := &config.Config{
		Dir:      t.TempDir(),
		Quiet:    quiet,
		Settings: config.DefaultSettings(),
	}
	return runWithConfig(t, cmd, cfg, svc, args)
}

func runWithConfig(t *testing.T, cmd commands.Command, cfg *config.Config, svc *testutil.FakeService, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(context.Background(), cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// seeded returns a store with three tasks: an old favorite, a newer plain
// task and a done task.
func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "1", Name: "Buy milk", Tags: []string{service.TagFavorite}, LastUpdateTime: 100})
	svc.AddTask(service.Task{ID: "2", Name: "Call mom", Tags: []string{}, LastUpdateTime: 300})
	svc.AddTask(service.Task{ID: "3", Name: "Pay rent", IsDone: true, Tags: []string{}, LastUpdateTime: 200})
	return svc
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "gtodo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("help output should contain 'Usage:'")
	}
	for _, name := range []string{"shell", "restore", "fav", "settings"} {
		if !strings.Contains(stdout, "gtodo "+name) {
			t.Errorf("help output should mention %q", name)
		}
	}
}

func TestListCommand_DefaultOrder(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "Tasks (3)\n" +
		"   1  [ ] * Buy milk\n" +
		"   2  [ ] Call mom\n" +
		"   3  [x] Pay rent\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_OrderFlag(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetOrder("recent")
	stdout, _, code := runCommand(t, cmd, seeded(), nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "Tasks (3)\n" +
		"   1  [ ] Call mom\n" +
		"   2  [x] Pay rent\n" +
		"   3  [ ] * Buy milk\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_UnknownOrder(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetOrder("random")
	svc := seeded()
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "random") {
		t.Errorf("expected unknown order error, got %q", stderr)
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no store calls, got %d", svc.TotalCalls())
	}
}

func TestListCommand_Empty(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected empty message, got %q", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_Localized(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Settings: config.DefaultSettings()}
	cfg.Settings.Locale = config.LocaleBR

	stdout, _, code := runWithConfig(t, &commands.ListCmd{}, cfg, seeded(), nil)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout, "Lembretes (3)\n") {
		t.Errorf("expected localized header, got %q", stdout)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := seeded()
	svc.ListTasksErr = errors.New("connection refused")

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: refresh task list: connection refused\n"
	if stderr != expected {
		t.Errorf("expected a single error line %q, got %q", expected, stderr)
	}
}

func TestAddCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "bread"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	task, ok := svc.Task("1")
	if !ok {
		t.Fatal("expected task to be created")
	}
	if task.Name != "Buy bread" {
		t.Errorf("expected name %q, got %q", "Buy bread", task.Name)
	}
	if svc.Calls("CreateTask") != 1 {
		t.Errorf("expected 1 CreateTask call, got %d", svc.Calls("CreateTask"))
	}
}

func TestAddCommand_NameRequired(t *testing.T) {
	svc := testutil.NewFakeService()
	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"  "}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: name required\n" {
		t.Errorf("expected name required error, got %q", stderr)
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no store calls, got %d", svc.TotalCalls())
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.AddCmd{}, testutil.NewFakeService(), []string{"x"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestEditCommand(t *testing.T) {
	svc := seeded()
	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"2", "Call", "dad"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	task, _ := svc.Task("2")
	if task.Name != "Call dad" {
		t.Errorf("expected renamed task, got %q", task.Name)
	}
	if !task.HasTag(service.TagUpdated) {
		t.Errorf("expected %q tag, got %v", service.TagUpdated, task.Tags)
	}
}

func TestEditCommand_MissingName(t *testing.T) {
	svc := seeded()
	_, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"2"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: name required\n" {
		t.Errorf("expected name required error, got %q", stderr)
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no store calls, got %d", svc.TotalCalls())
	}
}

func TestFavCommand_TogglesTag(t *testing.T) {
	svc := seeded()

	// Row 2 is "Call mom" in the default order.
	if _, stderr, code := runCommand(t, &commands.FavCmd{}, svc, []string{"2"}, true); code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	task, _ := svc.Task("2")
	if !task.HasTag(service.TagFavorite) {
		t.Errorf("expected favorite tag, got %v", task.Tags)
	}
	if task.LastUpdateTime != 300 {
		t.Errorf("expected LastUpdateTime unchanged, got %d", task.LastUpdateTime)
	}
}

func TestDoneCommand(t *testing.T) {
	svc := seeded()
	stdout, _, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	task, _ := svc.Task("1")
	if !task.IsDone {
		t.Error("expected task to be done")
	}
}

func TestDoneCommand_AlreadyDone(t *testing.T) {
	svc := seeded()
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"3"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "already done") {
		t.Errorf("expected invalid transition error, got %q", stderr)
	}
	if svc.Calls("UpdateTask") != 0 {
		t.Errorf("expected no UpdateTask call, got %d", svc.Calls("UpdateTask"))
	}
}

func TestRestoreCommand(t *testing.T) {
	svc := seeded()
	if _, stderr, code := runCommand(t, &commands.RestoreCmd{}, svc, []string{"3"}, true); code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	task, _ := svc.Task("3")
	if task.IsDone {
		t.Error("expected task to be open")
	}
}

func TestRestoreCommand_NotDone(t *testing.T) {
	svc := seeded()
	_, _, code := runCommand(t, &commands.RestoreCmd{}, svc, []string{"2"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if svc.Calls("UpdateTask") != 0 {
		t.Errorf("expected no UpdateTask call, got %d", svc.Calls("UpdateTask"))
	}
}

func TestRmCommand(t *testing.T) {
	svc := seeded()
	stdout, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if _, ok := svc.Task("2"); ok {
		t.Error("expected task 2 to be deleted")
	}
}

func TestRmCommand_OutOfRange(t *testing.T) {
	svc := seeded()
	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task reference: task number out of range: 5\n" {
		t.Errorf("expected out of range error, got %q", stderr)
	}
	if svc.Calls("DeleteTask") != 0 {
		t.Errorf("expected no DeleteTask call, got %d", svc.Calls("DeleteTask"))
	}
}

func TestRmCommand_MissingRef(t *testing.T) {
	svc := seeded()
	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected missing ref error, got %q", stderr)
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no store calls, got %d", svc.TotalCalls())
	}
}

func TestRmCommand_BackendError(t *testing.T) {
	svc := seeded()
	svc.DeleteTaskErr = errors.New("quota exceeded")

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: delete task 1: quota exceeded\n"
	if stderr != expected {
		t.Errorf("expected a single error line %q, got %q", expected, stderr)
	}
	if _, ok := svc.Task("1"); !ok {
		t.Error("task should still exist")
	}
}

func TestRmCommand_RemoteNotFound(t *testing.T) {
	svc := seeded()
	svc.DeleteTaskErr = testutil.ErrNotFound

	_, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
}

func TestSettingsCommand_Show(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.SettingsCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "backend: google\nlist: \nlocale: en\norder: favorites\nsqlite_path: \ncolor: false\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestSettingsCommand_Set(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: filepath.Join(dir, "gtodo"), Settings: config.DefaultSettings()}

	stdout, stderr, code := runWithConfig(t, &commands.SettingsCmd{}, cfg, nil, []string{"set", "order", "recent"})
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}

	s, err := config.LoadSettings(cfg.SettingsPath())
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	if s.Order != "recent" {
		t.Errorf("expected saved order %q, got %q", "recent", s.Order)
	}
}

func TestSettingsCommand_DoesNotPersistEnvOverride(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir, Settings: config.DefaultSettings()}
	cfg.Settings.Backend = config.BackendSQLite

	if _, stderr, code := runWithConfig(t, &commands.SettingsCmd{}, cfg, nil, []string{"set", "color", "true"}); code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}

	data, err := os.ReadFile(cfg.SettingsPath())
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	if !strings.Contains(string(data), "backend: google") {
		t.Errorf("expected file backend to stay google, got:\n%s", data)
	}
	if !strings.Contains(string(data), "color: true") {
		t.Errorf("expected color saved, got:\n%s", data)
	}
}

func TestSettingsCommand_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"set", "theme", "dark"}},
		{"bad order", []string{"set", "order", "random"}},
		{"bad backend", []string{"set", "backend", "postgres"}},
		{"missing value", []string{"set", "order"}},
		{"unknown subcommand", []string{"get", "order"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCommand(t, &commands.SettingsCmd{}, nil, tt.args, false)
			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr == "" {
				t.Error("expected error output")
			}
		})
	}
}

func TestRegistry_AllCommandsRegistered(t *testing.T) {
	for _, name := range []string{"list", "ls", "add", "create", "edit", "fav", "done", "restore", "rm", "shell", "settings", "login", "logout", "help", "version"} {
		if _, ok := commands.DefaultRegistry.Find(name); !ok {
			t.Errorf("expected command %q to be registered", name)
		}
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.AddCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&commands.AddCmd{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRegistry_AliasClashLeavesRegistryUnchanged(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&aliasedCmd{name: "tasks", aliases: []string{"ls"}}); err == nil {
		t.Fatal("expected alias clash to fail")
	}
	if _, ok := r.Find("tasks"); ok {
		t.Error("expected rejected command to stay unregistered")
	}
	if c, _ := r.Find("ls"); c.Name() != "list" {
		t.Errorf("expected ls to resolve to list, got %q", c.Name())
	}
}

func TestRegistry_AllListsEachCommandOnce(t *testing.T) {
	r := commands.NewRegistry()
	for _, c := range []commands.Command{&commands.RmCmd{}, &commands.AddCmd{}, &commands.ListCmd{}} {
		if err := r.Register(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	expected := []string{"add", "list", "rm"}
	if strings.Join(names, ",") != strings.Join(expected, ",") {
		t.Errorf("expected %v, got %v", expected, names)
	}
}

func TestHelpCommand_ListsRegisteredCommands(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cmd := &commands.HelpCmd{}

	code := cmd.Run(context.Background(), &config.Config{}, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, c := range commands.DefaultRegistry.All() {
		if !strings.Contains(outBuf.String(), c.Usage()) {
			t.Errorf("expected help to mention %q", c.Usage())
		}
	}
	if !strings.Contains(outBuf.String(), "Create a task (also: create)") {
		t.Errorf("expected aliases in help, got %q", outBuf.String())
	}
}

type aliasedCmd struct {
	commands.VersionCmd
	name    string
	aliases []string
}

func (c *aliasedCmd) Name() string      { return c.name }
func (c *aliasedCmd) Aliases() []string { return c.aliases }
