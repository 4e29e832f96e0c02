// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"sync"

	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// Default is the process-wide catalog. It is populated once at start-up and
// read-only afterwards.
var Default = NewCatalog()

// Catalog is an ordered table of registered components with an enable/disable
// overlay. Registration order is the tie-breaker for graph ordering.
type Catalog struct {
	mu             sync.RWMutex
	components     []*Component
	byName         map[string]*Component
	enabled        map[string]bool
	defaultEnabled bool
}

// NewCatalog returns an empty catalog in which every component is enabled.
func NewCatalog() *Catalog {
	return &Catalog{
		byName:         make(map[string]*Component),
		enabled:        make(map[string]bool),
		defaultEnabled: true,
	}
}

// Register adds c to the catalog. Empty names, unknown kinds, nil bodies and
// duplicate names are rejected.
func (cat *Catalog) Register(c *Component) error {
	if c == nil || c.Name == "" {
		return errors.New(errors.ErrCodeInvalidGraph, "component name is required")
	}
	if !c.Kind.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidGraph, "component %q has unknown kind %q", c.Name, c.Kind)
	}
	if c.Func == nil {
		return errors.Newf(errors.ErrCodeInvalidGraph, "component %q has no body", c.Name)
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()

	if _, exists := cat.byName[c.Name]; exists {
		return errors.Newf(errors.ErrCodeInvalidGraph, "duplicate component name: %q", c.Name)
	}
	cat.byName[c.Name] = c
	cat.components = append(cat.components, c)
	return nil
}

// MustRegister is like Register but panics on error. It is meant for static
// catalogs registered at start-up.
func (cat *Catalog) MustRegister(cs ...*Component) {
	for _, c := range cs {
		if err := cat.Register(c); err != nil {
			panic(err)
		}
	}
}

// Get returns the component registered under name.
func (cat *Catalog) Get(name string) (*Component, bool) {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	c, ok := cat.byName[name]
	return c, ok
}

// Components returns all registered components in registration order.
func (cat *Catalog) Components() []*Component {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	out := make([]*Component, len(cat.components))
	copy(out, cat.components)
	return out
}

// SetDefaultEnabled sets whether components without an explicit setting are enabled.
func (cat *Catalog) SetDefaultEnabled(enabled bool) {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	cat.defaultEnabled = enabled
}

// SetEnabled enables or disables a component by name.
func (cat *Catalog) SetEnabled(name string, enabled bool) {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	cat.enabled[name] = enabled
}

// Enabled reports whether c is enabled.
func (cat *Catalog) Enabled(c *Component) bool {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	if v, ok := cat.enabled[c.Name]; ok {
		return v
	}
	return cat.defaultEnabled
}

// EnabledComponents returns the enabled components in registration order.
func (cat *Catalog) EnabledComponents() []*Component {
	all := cat.Components()
	out := make([]*Component, 0, len(all))
	for _, c := range all {
		if cat.Enabled(c) {
			out = append(out, c)
		}
	}
	return out
}

// Graph builds the graph of every registered component.
func (cat *Catalog) Graph() (*Graph, error) {
	return Build(cat.Components())
}

// EnabledGraph builds the graph reachable from the enabled components. A
// disabled component is still included when an enabled one depends on it.
func (cat *Catalog) EnabledGraph() (*Graph, error) {
	g, err := cat.Graph()
	if err != nil {
		return nil, err
	}
	return g.Subgraph(cat.EnabledComponents()...), nil
}
