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
	"strings"
	"sync"
	"time"
)

// State is the per-run state of a component.
type State string

const (
	// StatePending means the component has not reached a terminal state.
	StatePending State = "pending"
	// StateSkipped means the component was not invoked.
	StateSkipped State = "skipped"
	// StateOK means the component ran and produced a value.
	StateOK State = "ran-ok"
	// StateFailed means the component ran, or was refused, and failed.
	StateFailed State = "ran-failed"
)

// IsTerminal reports whether s is final for the run.
func (s State) IsTerminal() bool {
	switch s {
	case StateSkipped, StateOK, StateFailed:
		return true
	default:
		return false
	}
}

// Failure is one recorded error with its diagnostic trace.
type Failure struct {
	Err   error  `json:"-" yaml:"-"`
	Trace string `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// Error returns the failure message.
func (f Failure) Error() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// SkipReason explains why a component was skipped.
type SkipReason struct {
	// Missing lists required dependencies that were skipped or failed.
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
	// Message is set when the component body requested the skip.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// String returns a human-readable reason.
func (r SkipReason) String() string {
	if len(r.Missing) > 0 {
		return "missing required dependencies: " + strings.Join(r.Missing, ", ")
	}
	return r.Message
}

// Outcome is the typed result of resolving one component.
type Outcome struct {
	State    State
	Value    any
	Failure  *Failure
	Reason   SkipReason
	Duration time.Duration
	// Invoked is true when the component body was called.
	Invoked bool
}

// Broker is the run-scoped store of component values, failures and skips.
// A new Broker is created for every run. It is safe for concurrent use;
// values are written only by the scheduler, or seeded before the run.
type Broker struct {
	mu        sync.RWMutex
	values    map[*Component]any
	failures  map[*Component][]Failure
	skipped   map[*Component]SkipReason
	seeded    map[*Component]struct{}
	durations map[*Component]time.Duration
	invoked   map[*Component]struct{}
}

// NewBroker returns an empty broker.
func NewBroker() *Broker {
	return &Broker{
		values:    make(map[*Component]any),
		failures:  make(map[*Component][]Failure),
		skipped:   make(map[*Component]SkipReason),
		seeded:    make(map[*Component]struct{}),
		durations: make(map[*Component]time.Duration),
		invoked:   make(map[*Component]struct{}),
	}
}

// Seed stores a value for c before the run. Seeded components are treated
// as resolved and are never invoked.
func (b *Broker) Seed(c *Component, v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[c] = v
	b.seeded[c] = struct{}{}
}

// Get returns the value stored for c.
func (b *Broker) Get(c *Component) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[c]
	return v, ok
}

// Has reports whether c has a value.
func (b *Broker) Has(c *Component) bool {
	_, ok := b.Get(c)
	return ok
}

// IsSeeded reports whether c was seeded before the run.
func (b *Broker) IsSeeded(c *Component) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.seeded[c]
	return ok
}

// Failures returns the failures recorded for c, in the order they occurred.
func (b *Broker) Failures(c *Component) []Failure {
	b.mu.RLock()
	defer b.mu.RUnlock()
	f := b.failures[c]
	out := make([]Failure, len(f))
	copy(out, f)
	return out
}

// Skipped returns the skip reason recorded for c.
func (b *Broker) Skipped(c *Component) (SkipReason, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.skipped[c]
	return r, ok
}

// Duration returns how long the body of c ran.
func (b *Broker) Duration(c *Component) time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.durations[c]
}

// Invoked reports whether the body of c was called in this run.
func (b *Broker) Invoked(c *Component) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.invoked[c]
	return ok
}

// State returns the state of c in this run.
func (b *Broker) State(c *Component) State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stateLocked(c)
}

func (b *Broker) stateLocked(c *Component) State {
	if _, ok := b.values[c]; ok {
		return StateOK
	}
	if len(b.failures[c]) > 0 {
		return StateFailed
	}
	if _, ok := b.skipped[c]; ok {
		return StateSkipped
	}
	return StatePending
}

// record stores the outcome of c. It is called once per component by the
// scheduler; terminal states are never overwritten.
func (b *Broker) record(c *Component, o Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stateLocked(c).IsTerminal() {
		return
	}
	b.durations[c] = o.Duration
	if o.Invoked {
		b.invoked[c] = struct{}{}
	}
	switch o.State {
	case StateOK:
		b.values[c] = o.Value
	case StateFailed:
		if o.Failure != nil {
			b.failures[c] = append(b.failures[c], *o.Failure)
		}
	case StateSkipped:
		b.skipped[c] = o.Reason
	}
}
