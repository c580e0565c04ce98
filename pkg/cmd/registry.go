package cmd

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultRegistry is filled by command packages from init().
var DefaultRegistry = NewRegistry()

// Registry stores commands by lower-cased name. It does no dispatch.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds c. Names are unique ignoring case.
func (r *Registry) Register(c Command) error {
	key := strings.ToLower(c.Name())
	if key == "" {
		return fmt.Errorf("command has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.commands[key]; dup {
		return fmt.Errorf("command %q already registered", c.Name())
	}
	r.commands[key] = c
	return nil
}

// MustRegister is Register for init() time, where a duplicate is a programming error.
func (r *Registry) MustRegister(c Command) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[strings.ToLower(name)]
	return c, ok
}

// All returns the registered commands sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}
