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
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/node-diagnostics/pkg/defaults"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
	"github.com/NVIDIA/node-diagnostics/pkg/filters"
)

// Mode selects how the scheduler executes components.
type Mode string

const (
	// ModeSerial runs one component at a time in topological order.
	ModeSerial Mode = "serial"
	// ModeParallel runs independent components on a bounded worker pool.
	ModeParallel Mode = "parallel"
)

// IsValid reports whether m is a supported mode.
func (m Mode) IsValid() bool {
	return m == ModeSerial || m == ModeParallel
}

// Scheduler resolves a graph against a broker.
type Scheduler struct {
	// Mode is the execution mode. The zero value runs serially.
	Mode Mode
	// Workers is the pool width in parallel mode.
	Workers int
	// Filters is the registry consulted for filterable components. If nil,
	// filters.Default is used.
	Filters *filters.Registry
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithMode sets the execution mode.
func WithMode(m Mode) SchedulerOption {
	return func(s *Scheduler) {
		s.Mode = m
	}
}

// WithWorkers sets the parallel pool width.
func WithWorkers(n int) SchedulerOption {
	return func(s *Scheduler) {
		s.Workers = n
	}
}

// WithFilters sets the filter registry.
func WithFilters(r *filters.Registry) SchedulerOption {
	return func(s *Scheduler) {
		s.Filters = r
	}
}

// NewScheduler returns a serial scheduler using filters.Default, adjusted by opts.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		Mode:    ModeSerial,
		Workers: defaults.DefaultWorkers,
		Filters: filters.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run resolves every component of g and records the outcomes in b. It never
// returns early because of a component failure; the returned Summary
// describes the terminal state of every component.
func (s *Scheduler) Run(ctx context.Context, g *Graph, b *Broker) *Summary {
	start := time.Now()
	defer func() {
		runDuration.Observe(time.Since(start).Seconds())
	}()

	reg := s.Filters
	if reg == nil {
		reg = filters.Default
	}
	r := &run{
		graph:   g,
		broker:  b,
		filters: reg.Snapshot(),
	}

	mode := s.Mode
	if mode == "" {
		mode = ModeSerial
	}

	slog.Debug("starting component run",
		slog.String("mode", string(mode)),
		slog.Int("components", g.Len()))

	if mode == ModeParallel {
		workers := s.Workers
		if workers <= 0 {
			workers = defaults.DefaultWorkers
		}
		r.parallel(ctx, workers)
	} else {
		r.serial(ctx)
	}

	sum := newSummary(uuid.NewString(), mode, g, b, time.Since(start))
	slog.Info("component run complete",
		slog.String("run", sum.RunID),
		slog.Int("executed", sum.Executed),
		slog.Int("failed", sum.Failed),
		slog.Int("skipped", sum.Skipped),
		slog.Duration("duration", sum.Duration))
	return sum
}

type run struct {
	graph   *Graph
	broker  *Broker
	filters *filters.Registry
}

func (r *run) serial(ctx context.Context) {
	for _, c := range r.graph.Order() {
		r.resolve(ctx, c)
	}
}

// parallel dispatches components whose dependencies are terminal onto a
// bounded errgroup. Only the dispatcher decides readiness; workers report
// completion on done.
func (r *run) parallel(ctx context.Context, workers int) {
	order := r.graph.Order()
	pending := make(map[*Component]struct{}, len(order))
	for _, c := range order {
		pending[c] = struct{}{}
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	done := make(chan *Component, len(order))
	inflight := 0

	for len(pending) > 0 || inflight > 0 {
		dispatched := false
		for _, c := range order {
			if _, ok := pending[c]; !ok || !r.ready(c) {
				continue
			}
			delete(pending, c)
			dispatched = true
			inflight++
			g.Go(func() error {
				r.resolve(ctx, c)
				done <- c
				return nil
			})
		}
		if inflight == 0 {
			if !dispatched && len(pending) > 0 {
				// unreachable for a validated graph
				slog.Error("no ready components left", slog.Int("pending", len(pending)))
				break
			}
			continue
		}
		<-done
		inflight--
	}
	_ = g.Wait()
}

// ready reports whether every dependency of c, required or optional, is terminal.
func (r *run) ready(c *Component) bool {
	for _, dep := range c.Dependencies() {
		if !r.broker.State(dep).IsTerminal() {
			return false
		}
	}
	return true
}

// resolve applies the transition rule to c and records the outcome.
func (r *run) resolve(ctx context.Context, c *Component) {
	if r.broker.IsSeeded(c) {
		return
	}

	o := r.outcome(ctx, c)
	r.broker.record(c, o)

	componentTotal.WithLabelValues(string(o.State)).Inc()
	switch o.State {
	case StateFailed:
		slog.Warn("component failed",
			slog.String("component", c.Name),
			slog.String("code", string(errors.CodeOf(o.Failure.Err))),
			slog.String("error", o.Failure.Error()))
	case StateSkipped:
		slog.Debug("component skipped",
			slog.String("component", c.Name),
			slog.String("reason", o.Reason.String()))
	default:
		slog.Debug("component finished",
			slog.String("component", c.Name),
			slog.Duration("duration", o.Duration))
	}
}

func (r *run) outcome(ctx context.Context, c *Component) Outcome {
	var missing []string
	for _, dep := range c.Requires {
		if !r.broker.Has(dep) {
			missing = append(missing, dep.Name)
		}
	}
	if len(missing) > 0 {
		return Outcome{State: StateSkipped, Reason: SkipReason{Missing: missing}}
	}

	if !r.filters.Satisfied(c.Name, c.Flags.Filterable) {
		return failed(errors.New(errors.ErrCodeFilterRequired, MsgFilterRequired), 0)
	}

	if err := ctx.Err(); err != nil {
		return failed(errors.Wrap(errors.ErrCodeTimeout, "run canceled before component started", err), 0)
	}

	var patterns []string
	if c.Flags.Filterable {
		patterns = r.filters.Patterns(c.Name)
	}
	call := &Call{component: c, broker: r.broker, patterns: patterns}

	start := time.Now()
	v, err := invoke(ctx, c, call)
	elapsed := time.Since(start)
	componentDuration.WithLabelValues(string(c.Kind)).Observe(elapsed.Seconds())

	var o Outcome
	var se *SkipError
	switch {
	case asSkip(err, &se):
		o = Outcome{State: StateSkipped, Reason: SkipReason{Message: se.Reason}}
	case err != nil:
		o = failed(err, elapsed)
	case v == nil:
		o = Outcome{State: StateSkipped, Reason: SkipReason{Message: "component produced no value"}}
	default:
		o = Outcome{State: StateOK, Value: v}
	}
	o.Duration = elapsed
	o.Invoked = true
	return o
}

// invoke runs the component body, converting a panic into an INTERNAL error.
func invoke(ctx context.Context, c *Component, call *Call) (v any, err error) {
	defer errors.Recover(func(cause error) {
		v, err = nil, cause
	})
	if c.Func == nil {
		return nil, errors.Newf(errors.ErrCodeInternal, "component %q has no body", c.Name)
	}
	return c.Func(ctx, call)
}

// failed records err with the stack captured where it was raised. Errors
// created outside pkg/errors carry no stack and are recorded without one.
func failed(err error, elapsed time.Duration) Outcome {
	return Outcome{
		State: StateFailed,
		Failure: &Failure{
			Err:   err,
			Trace: errors.StackTrace(err),
		},
		Duration: elapsed,
	}
}

// String returns a short description of the scheduler.
func (s *Scheduler) String() string {
	if s.Mode == ModeParallel {
		return fmt.Sprintf("%s(%d)", s.Mode, s.Workers)
	}
	return string(ModeSerial)
}
