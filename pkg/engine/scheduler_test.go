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
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/node-diagnostics/pkg/errors"
	"github.com/NVIDIA/node-diagnostics/pkg/filters"
)

func failing(msg string) Func {
	return func(context.Context, *Call) (any, error) {
		return nil, errors.New(errors.ErrCodeNotFound, msg)
	}
}

func counting(n *atomic.Int32, v any) Func {
	return func(context.Context, *Call) (any, error) {
		n.Add(1)
		return v, nil
	}
}

func schedulers() map[string]*Scheduler {
	return map[string]*Scheduler{
		"serial":   NewScheduler(WithFilters(filters.NewRegistry())),
		"parallel": NewScheduler(WithMode(ModeParallel), WithWorkers(3), WithFilters(filters.NewRegistry())),
	}
}

func mustBuild(t *testing.T, cs ...*Component) *Graph {
	t.Helper()
	g, err := Build(cs)
	require.NoError(t, err)
	return g
}

func TestScheduler_ValuesFlowToDependents(t *testing.T) {
	for name, s := range schedulers() {
		t.Run(name, func(t *testing.T) {
			src := New("src", KindDatasource, constant("raw"))
			parser := New("parser", KindParser, func(_ context.Context, call *Call) (any, error) {
				v, ok := call.Get(src)
				if !ok {
					return nil, stderrors.New("src missing")
				}
				return v.(string) + "-parsed", nil
			}, Requires(src))

			b := NewBroker()
			sum := s.Run(context.Background(), mustBuild(t, src, parser), b)

			v, ok := b.Get(parser)
			require.True(t, ok)
			assert.Equal(t, "raw-parsed", v)
			assert.Equal(t, 2, sum.Executed)
			assert.Equal(t, 2, sum.Succeeded)
			assert.Zero(t, sum.Failed)
			assert.NotEmpty(t, sum.RunID)
		})
	}
}

func TestScheduler_FailureSkipsDependentsOnly(t *testing.T) {
	for name, s := range schedulers() {
		t.Run(name, func(t *testing.T) {
			var dependentCalls atomic.Int32
			bad := New("bad", KindDatasource, failing("No such file: /etc/missing"))
			dependent := New("dependent", KindParser, counting(&dependentCalls, 1), Requires(bad))
			good := New("good", KindDatasource, constant("ok"))
			sibling := New("sibling", KindParser, constant(2), Requires(good))

			b := NewBroker()
			sum := s.Run(context.Background(), mustBuild(t, bad, dependent, good, sibling), b)

			assert.Equal(t, StateFailed, b.State(bad))
			assert.Equal(t, StateSkipped, b.State(dependent))
			assert.Equal(t, StateOK, b.State(good))
			assert.Equal(t, StateOK, b.State(sibling))
			assert.Zero(t, dependentCalls.Load(), "skipped component must not be invoked")

			reason, ok := b.Skipped(dependent)
			require.True(t, ok)
			assert.Equal(t, []string{"bad"}, reason.Missing)

			fails := b.Failures(bad)
			require.Len(t, fails, 1)
			assert.Contains(t, fails[0].Error(), "/etc/missing")
			// the trace is where the body raised the error, not the scheduler
			assert.NotEmpty(t, fails[0].Trace)
			assert.NotContains(t, fails[0].Trace, "\tfailed: ")
			assert.False(t, b.Has(bad))

			assert.Equal(t, 1, sum.Failed)
			assert.Equal(t, 1, sum.Skipped)
			assert.Equal(t, 2, sum.Succeeded)
			assert.Equal(t, 3, sum.Executed)

			st, ok := sum.Status("bad")
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeNotFound, st.Code)
		})
	}
}

func TestScheduler_SkipPropagatesTransitively(t *testing.T) {
	for name, s := range schedulers() {
		t.Run(name, func(t *testing.T) {
			root := New("root", KindDatasource, func(context.Context, *Call) (any, error) {
				return nil, Skip("not applicable on this host")
			})
			mid := New("mid", KindParser, constant(1), Requires(root))
			leaf := New("leaf", KindCombiner, constant(1), Requires(mid))

			b := NewBroker()
			s.Run(context.Background(), mustBuild(t, root, mid, leaf), b)

			r, ok := b.Skipped(root)
			require.True(t, ok)
			assert.Equal(t, "not applicable on this host", r.String())
			assert.Equal(t, StateSkipped, b.State(mid))
			assert.Equal(t, StateSkipped, b.State(leaf))
			assert.Empty(t, b.Failures(leaf))
		})
	}
}

func TestScheduler_OptionalDependencyNeverBlocks(t *testing.T) {
	for name, s := range schedulers() {
		t.Run(name, func(t *testing.T) {
			opt := New("opt", KindDatasource, failing("gone"))
			c := New("c", KindCombiner, func(_ context.Context, call *Call) (any, error) {
				if call.Has(opt) {
					return "with", nil
				}
				return "without", nil
			}, Optional(opt))

			b := NewBroker()
			s.Run(context.Background(), mustBuild(t, opt, c), b)

			v, ok := b.Get(c)
			require.True(t, ok)
			assert.Equal(t, "without", v)
		})
	}
}

func TestScheduler_NilValueIsSkipped(t *testing.T) {
	c := New("c", KindParser, constant(nil))
	b := NewBroker()
	NewScheduler().Run(context.Background(), mustBuild(t, c), b)
	assert.Equal(t, StateSkipped, b.State(c))
}

func TestScheduler_PlainErrorHasNoTrace(t *testing.T) {
	plain := New("plain_error", KindDatasource, func(context.Context, *Call) (any, error) {
		return nil, stderrors.New("unreadable")
	})

	b := NewBroker()
	NewScheduler().Run(context.Background(), mustBuild(t, plain), b)

	fails := b.Failures(plain)
	require.Len(t, fails, 1)
	assert.Equal(t, "unreadable", fails[0].Err.Error())
	assert.Empty(t, fails[0].Trace)
}

func TestScheduler_PanicIsIsolated(t *testing.T) {
	for name, s := range schedulers() {
		t.Run(name, func(t *testing.T) {
			boom := New("boom", KindParser, func(context.Context, *Call) (any, error) {
				var m map[string]int
				m["x"] = 1
				return nil, nil
			})
			other := New("other", KindDatasource, constant(1))

			b := NewBroker()
			sum := s.Run(context.Background(), mustBuild(t, boom, other), b)

			assert.Equal(t, StateFailed, b.State(boom))
			assert.Equal(t, StateOK, b.State(other))
			fails := b.Failures(boom)
			require.Len(t, fails, 1)
			assert.Equal(t, errors.ErrCodeInternal, errors.CodeOf(fails[0].Err))
			assert.Contains(t, fails[0].Error(), "panic in component body")
			assert.NotEmpty(t, fails[0].Trace)
			assert.Equal(t, 1, sum.Failed)
		})
	}
}

func TestScheduler_FilterPolicy(t *testing.T) {
	var calls atomic.Int32
	newComponent := func() *Component {
		return New("echo", KindDatasource, func(_ context.Context, call *Call) (any, error) {
			calls.Add(1)
			return call.Patterns(), nil
		}, Filterable())
	}

	t.Run("unsatisfied is not invoked", func(t *testing.T) {
		calls.Store(0)
		c := newComponent()
		reg := filters.NewRegistry()
		b := NewBroker()
		NewScheduler(WithFilters(reg)).Run(context.Background(), mustBuild(t, c), b)

		assert.Zero(t, calls.Load())
		assert.False(t, b.Has(c))
		fails := b.Failures(c)
		require.Len(t, fails, 1)
		assert.Contains(t, fails[0].Error(), MsgFilterRequired)
		assert.Equal(t, errors.ErrCodeFilterRequired, errors.CodeOf(fails[0].Err))
		assert.False(t, b.Invoked(c))
	})

	t.Run("registered before run executes", func(t *testing.T) {
		calls.Store(0)
		c := newComponent()
		reg := filters.NewRegistry()
		reg.Add("echo", " hello ")
		b := NewBroker()
		NewScheduler(WithFilters(reg)).Run(context.Background(), mustBuild(t, c), b)

		assert.Equal(t, int32(1), calls.Load())
		v, ok := b.Get(c)
		require.True(t, ok)
		assert.Equal(t, []string{" hello "}, v)
	})

	t.Run("registration during run applies to next run", func(t *testing.T) {
		calls.Store(0)
		reg := filters.NewRegistry()
		first := New("first", KindDatasource, func(context.Context, *Call) (any, error) {
			reg.Add("echo", "late")
			return 1, nil
		})
		c := newComponent()
		c.Requires = []*Component{first}
		g := mustBuild(t, first, c)

		b := NewBroker()
		NewScheduler(WithFilters(reg)).Run(context.Background(), g, b)
		assert.Equal(t, StateFailed, b.State(c))

		b = NewBroker()
		NewScheduler(WithFilters(reg)).Run(context.Background(), g, b)
		assert.Equal(t, StateOK, b.State(c))
	})

	t.Run("non filterable ignores registry", func(t *testing.T) {
		c := New("plain", KindDatasource, func(_ context.Context, call *Call) (any, error) {
			return len(call.Patterns()), nil
		})
		reg := filters.NewRegistry()
		reg.Add("plain", "x")
		b := NewBroker()
		NewScheduler(WithFilters(reg)).Run(context.Background(), mustBuild(t, c), b)
		v, _ := b.Get(c)
		assert.Equal(t, 0, v)
	})
}

func TestScheduler_SeededComponentsAreNotInvoked(t *testing.T) {
	var calls atomic.Int32
	ctx := New("ctx", KindDatasource, counting(&calls, "real"))
	user := New("user", KindParser, func(_ context.Context, call *Call) (any, error) {
		v, _ := call.Get(ctx)
		return v, nil
	}, Requires(ctx))

	b := NewBroker()
	b.Seed(ctx, "seeded")
	sum := NewScheduler().Run(context.Background(), mustBuild(t, ctx, user), b)

	assert.Zero(t, calls.Load())
	v, _ := b.Get(user)
	assert.Equal(t, "seeded", v)
	assert.Equal(t, 1, sum.Executed)
	assert.Equal(t, 2, sum.Succeeded)
}

func TestScheduler_CanceledContextFailsRemaining(t *testing.T) {
	c := New("c", KindDatasource, constant(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBroker()
	NewScheduler().Run(ctx, mustBuild(t, c), b)
	assert.Equal(t, StateFailed, b.State(c))
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(b.Failures(c)[0].Err))
}

func TestScheduler_Deterministic(t *testing.T) {
	build := func() *Graph {
		a := New("a", KindDatasource, constant("a"))
		b := New("b", KindDatasource, failing("b"))
		c := New("c", KindParser, constant("c"), Requires(a))
		d := New("d", KindParser, constant("d"), Requires(b))
		e := New("e", KindCombiner, constant("e"), Requires(c), Optional(d))
		return mustBuild(t, a, b, c, d, e)
	}

	states := func(s *Scheduler) map[string]State {
		g := build()
		b := NewBroker()
		s.Run(context.Background(), g, b)
		out := make(map[string]State)
		for _, c := range g.Order() {
			out[c.Name] = b.State(c)
		}
		return out
	}

	serial := states(NewScheduler())
	assert.Equal(t, serial, states(NewScheduler()))
	assert.Equal(t, serial, states(NewScheduler(WithMode(ModeParallel), WithWorkers(4))))
	assert.Equal(t, map[string]State{
		"a": StateOK, "b": StateFailed, "c": StateOK, "d": StateSkipped, "e": StateOK,
	}, serial)
}

func TestScheduler_ParallelRespectsWorkerLimit(t *testing.T) {
	const workers = 2
	var (
		mu      sync.Mutex
		running int
		peak    int
	)
	body := func(context.Context, *Call) (any, error) {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		running--
		mu.Unlock()
		return 1, nil
	}

	var cs []*Component
	for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
		cs = append(cs, New(n, KindDatasource, body))
	}
	b := NewBroker()
	sum := NewScheduler(WithMode(ModeParallel), WithWorkers(workers)).Run(context.Background(), mustBuild(t, cs...), b)

	assert.Equal(t, 6, sum.Succeeded)
	assert.LessOrEqual(t, peak, workers)
}

func TestScheduler_ParallelOrdersDependents(t *testing.T) {
	var (
		mu  sync.Mutex
		log []string
	)
	rec := func(name string) Func {
		return func(context.Context, *Call) (any, error) {
			mu.Lock()
			log = append(log, name)
			mu.Unlock()
			return name, nil
		}
	}
	a := New("a", KindDatasource, rec("a"))
	b := New("b", KindParser, rec("b"), Requires(a))
	c := New("c", KindCombiner, rec("c"), Requires(b))

	NewScheduler(WithMode(ModeParallel), WithWorkers(8)).Run(context.Background(), mustBuild(t, c, b, a), NewBroker())
	assert.Equal(t, []string{"a", "b", "c"}, log)
}

func TestBroker_RecordIsTerminal(t *testing.T) {
	c := New("c", KindDatasource, constant(1))
	b := NewBroker()
	assert.Equal(t, StatePending, b.State(c))

	b.record(c, Outcome{State: StateOK, Value: 1, Invoked: true})
	b.record(c, Outcome{State: StateFailed, Failure: &Failure{Err: stderrors.New("late")}})

	assert.Equal(t, StateOK, b.State(c))
	assert.Empty(t, b.Failures(c))
	assert.True(t, b.Invoked(c))
}

func TestMode(t *testing.T) {
	assert.True(t, ModeSerial.IsValid())
	assert.True(t, ModeParallel.IsValid())
	assert.False(t, Mode("threads").IsValid())
	assert.Equal(t, "serial", NewScheduler().String())
	assert.Equal(t, "parallel(3)", NewScheduler(WithMode(ModeParallel), WithWorkers(3)).String())
}
