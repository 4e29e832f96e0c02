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
	"context"
)

// Kind is the capability tag of a component.
type Kind string

const (
	// KindDatasource produces raw content from the host.
	KindDatasource Kind = "datasource"
	// KindParser interprets the content of a datasource.
	KindParser Kind = "parser"
	// KindCombiner merges the values of several components.
	KindCombiner Kind = "combiner"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is a recognized kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindDatasource, KindParser, KindCombiner:
		return true
	default:
		return false
	}
}

// Flags are the metadata flags of a component.
type Flags struct {
	// MultiOutput marks components whose value is an ordered sequence of results.
	MultiOutput bool `json:"multi_output,omitempty" yaml:"multi_output,omitempty"`
	// Filterable marks components that may only be collected with registered filters.
	Filterable bool `json:"filterable,omitempty" yaml:"filterable,omitempty"`
	// NoRedact exempts the component's content from redaction.
	NoRedact bool `json:"no_redact,omitempty" yaml:"no_redact,omitempty"`
	// Raw marks content that is persisted byte-for-byte.
	Raw bool `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Func is the body of a component. It returns the component's value or an
// error; it must not retain call after returning.
type Func func(ctx context.Context, call *Call) (any, error)

// Component is a named unit of work in the dependency graph.
type Component struct {
	Name     string
	Kind     Kind
	Func     Func
	Requires []*Component
	Optional []*Component
	Flags    Flags
}

// Option configures a Component at construction.
type Option func(*Component)

// Requires adds required dependencies. A component never runs unless all of
// them produced a value.
func Requires(deps ...*Component) Option {
	return func(c *Component) {
		c.Requires = append(c.Requires, deps...)
	}
}

// Optional adds optional dependencies. They are resolved first when present
// but never prevent the component from running.
func Optional(deps ...*Component) Option {
	return func(c *Component) {
		c.Optional = append(c.Optional, deps...)
	}
}

// MultiOutput marks the component as producing an ordered sequence of results.
func MultiOutput() Option {
	return func(c *Component) {
		c.Flags.MultiOutput = true
	}
}

// Filterable marks the component as requiring registered filters.
func Filterable() Option {
	return func(c *Component) {
		c.Flags.Filterable = true
	}
}

// NoRedact exempts the component's content from redaction.
func NoRedact() Option {
	return func(c *Component) {
		c.Flags.NoRedact = true
	}
}

// Raw marks the component's content as raw.
func Raw() Option {
	return func(c *Component) {
		c.Flags.Raw = true
	}
}

// WithFlags replaces all flags at once.
func WithFlags(f Flags) Option {
	return func(c *Component) {
		c.Flags = f
	}
}

// New creates a component. It is not part of any graph until registered in a
// Catalog or passed to Build.
func New(name string, kind Kind, fn Func, opts ...Option) *Component {
	c := &Component{
		Name: name,
		Kind: kind,
		Func: fn,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// String returns the component name.
func (c *Component) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.Name
}

// Dependencies returns required dependencies followed by optional ones.
func (c *Component) Dependencies() []*Component {
	deps := make([]*Component, 0, len(c.Requires)+len(c.Optional))
	deps = append(deps, c.Requires...)
	deps = append(deps, c.Optional...)
	return deps
}

// Call is what a component body sees while it runs.
type Call struct {
	component *Component
	broker    *Broker
	patterns  []string
}

// Component returns the component being invoked.
func (c *Call) Component() *Component {
	return c.component
}

// Get returns the value of a resolved dependency.
func (c *Call) Get(dep *Component) (any, bool) {
	return c.broker.Get(dep)
}

// Has reports whether dep produced a value in this run.
func (c *Call) Has(dep *Component) bool {
	return c.broker.Has(dep)
}

// Patterns returns the filter patterns registered for the component when the
// run started. It is nil for components that are not filterable.
func (c *Call) Patterns() []string {
	return c.patterns
}

// NewCall builds a Call outside a scheduler run. It is meant for invoking
// component bodies directly, e.g. from tests or nested providers.
func NewCall(c *Component, b *Broker, patterns []string) *Call {
	if b == nil {
		b = NewBroker()
	}
	return &Call{component: c, broker: b, patterns: patterns}
}
