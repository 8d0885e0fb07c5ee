// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Builder creates a command from its configuration. child receives the
// command's output records.
type Builder func(cfg map[string]any, child Command, cctx *Context) (Command, error)

var (
	buildersMu sync.RWMutex
	builders   = make(map[string]Builder)
)

// Register makes a command available under name. Panics if the name is
// already taken.
func Register(name string, b Builder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	if _, exists := builders[name]; exists {
		panic(fmt.Sprintf("command: builder %q already registered", name))
	}
	builders[name] = b
}

// Available returns the registered command names, sorted.
func Available() []string {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the named command.
func Build(name string, cfg map[string]any, child Command, cctx *Context) (Command, error) {
	buildersMu.RLock()
	b, ok := builders[name]
	buildersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown command: %q (available: %v)", name, Available())
	}
	if child == nil {
		return nil, errors.New("command: child must not be nil")
	}
	cmd, err := b(cfg, child, cctx)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return cmd, nil
}

// Spec names a command and its configuration.
type Spec struct {
	Name   string         `yaml:"name"`
	Config map[string]any `yaml:"config"`
}

// BuildChain builds specs so that records flow through them in order and
// end in last.
func BuildChain(specs []Spec, last Command, cctx *Context) (Command, error) {
	next := last
	for i := len(specs) - 1; i >= 0; i-- {
		cmd, err := Build(specs[i].Name, specs[i].Config, next, cctx)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		next = cmd
	}
	return next, nil
}
