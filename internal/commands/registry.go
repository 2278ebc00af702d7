package commands

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps command names and aliases to commands. Each command file
// registers itself from init; the dispatcher resolves the first argument
// here and help lists what was registered.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Command
	// primary names only, so help does not repeat aliased commands
	primary map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Command),
		primary: make(map[string]Command),
	}
}

// Register adds c under its name and aliases. Nothing is added when any of
// those words is taken, so "ls" can never silently shadow another command.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	words := append([]string{c.Name()}, c.Aliases()...)
	for _, w := range words {
		if prev, taken := r.byName[w]; taken {
			return fmt.Errorf("command %q: %q already registered by %q", c.Name(), w, prev.Name())
		}
	}
	for _, w := range words {
		r.byName[w] = c
	}
	r.primary[c.Name()] = c
	return nil
}

// Find resolves a command name or alias.
func (r *Registry) Find(word string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[word]
	return c, ok
}

// All returns each command once, ordered by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]Command, 0, len(r.primary))
	for _, name := range slices.Sorted(maps.Keys(r.primary)) {
		cmds = append(cmds, r.primary[name])
	}
	return cmds
}

// DefaultRegistry holds the gtodo commands.
var DefaultRegistry = NewRegistry()

// Register adds c to DefaultRegistry. A clash is a programming error, so it
// panics during init.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
