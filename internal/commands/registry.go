package commands

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds registered commands.
type Registry struct {
	mu      sync.RWMutex
	cmds    map[string]Command // primary name -> command
	aliases map[string]string  // alias -> primary name
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		cmds:    make(map[string]Command),
		aliases: make(map[string]string),
	}
}

// Register adds a command to the registry.
// Returns an error if the name or any alias is already taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{c.Name()}, c.Aliases()...)
	for _, n := range names {
		if r.taken(n) {
			return fmt.Errorf("command name already registered: %s", n)
		}
	}

	r.cmds[c.Name()] = c
	for _, alias := range c.Aliases() {
		r.aliases[alias] = c.Name()
	}
	return nil
}

func (r *Registry) taken(name string) bool {
	_, cmd := r.cmds[name]
	_, alias := r.aliases[name]
	return cmd || alias
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if primary, ok := r.aliases[name]; ok {
		name = primary
	}
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// All returns all commands sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	slices.Sort(names)

	result := make([]Command, len(names))
	for i, name := range names {
		result[i] = r.cmds[name]
	}
	return result
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
