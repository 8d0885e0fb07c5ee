// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package provider implements a generic factory registry for pluggable backends.
//
// Each subsystem (content parsers, document sources, record sinks) creates a
// typed Registry and implementations self-register via init(). This follows
// the database/sql driver pattern: blank-import an implementation package to
// activate it, then call Registry.New(name, params) to instantiate.
//
// Aliases let configuration refer to a backend by an alternate name, such as
// the fully qualified class name used by older pipeline configurations.
package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory is a constructor function that creates a backend instance from
// a string parameter map. Implementations extract the keys they need and
// ignore the rest.
type Factory[T any] func(ctx context.Context, params map[string]string) (T, error)

// Registry is a thread-safe registry of named factory functions for a
// given backend interface T.
type Registry[T any] struct {
	subsystem string
	mu        sync.RWMutex
	factories map[string]Factory[T]
	aliases   map[string]string
}

// NewRegistry creates a new Registry. The subsystem name is used in error
// messages (e.g. "parser", "source").
func NewRegistry[T any](subsystem string) *Registry[T] {
	return &Registry[T]{
		subsystem: subsystem,
		factories: make(map[string]Factory[T]),
		aliases:   make(map[string]string),
	}
}

// Register adds a named factory. Panics if the name is already registered
// as a factory or an alias.
func (r *Registry[T]) Register(name string, f Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("provider: %s backend %q already registered", r.subsystem, name))
	}
	if _, exists := r.aliases[name]; exists {
		panic(fmt.Sprintf("provider: %s backend %q already registered as an alias", r.subsystem, name))
	}
	r.factories[name] = f
}

// Alias makes alias resolve to the backend registered as name. The target
// does not need to be registered yet.
func (r *Registry[T]) Alias(alias, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[alias]; exists {
		panic(fmt.Sprintf("provider: %s alias %q shadows a registered backend", r.subsystem, alias))
	}
	r.aliases[alias] = name
}

// Resolve returns the canonical backend name for name, following an alias
// if there is one.
func (r *Registry[T]) Resolve(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[name]; ok {
		return target
	}
	return name
}

// Has reports whether name (or an alias of it) is registered.
func (r *Registry[T]) Has(name string) bool {
	name = r.Resolve(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// New creates a backend instance by name or alias. Returns an error if the
// name is not registered.
func (r *Registry[T]) New(ctx context.Context, name string, params map[string]string) (T, error) {
	canonical := r.Resolve(name)
	r.mu.RLock()
	f, ok := r.factories[canonical]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown %s provider: %q (available: %v)", r.subsystem, name, r.Available())
	}
	return f(ctx, params)
}

// Available returns the sorted list of registered backend names. Aliases are
// not listed.
func (r *Registry[T]) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
