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

package datasource

import (
	"context"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/node-diagnostics/pkg/defaults"
	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// HostContext describes the host that providers collect from.
type HostContext struct {
	// Root is prepended to every file path. Defaults to "/".
	Root string
	// Timeout bounds each command execution.
	Timeout time.Duration
	// Blacklist lists files and commands that must never be collected.
	Blacklist Blacklist
	// Env is appended to the environment of executed commands.
	Env []string
	// Limiter throttles process spawning. Nil means unlimited.
	Limiter *rate.Limiter
	// MaxGlobMatches caps the number of files a glob may match.
	MaxGlobMatches int
	// MaxFileSize caps the size of a single collected file.
	MaxFileSize int64
}

// Option configures a HostContext.
type Option func(*HostContext)

// WithRoot sets the filesystem root.
func WithRoot(root string) Option {
	return func(hc *HostContext) {
		hc.Root = root
	}
}

// WithTimeout sets the per-command timeout.
func WithTimeout(d time.Duration) Option {
	return func(hc *HostContext) {
		hc.Timeout = d
	}
}

// WithBlacklist sets the blacklist.
func WithBlacklist(b Blacklist) Option {
	return func(hc *HostContext) {
		hc.Blacklist = b
	}
}

// WithEnv appends environment variables for commands.
func WithEnv(env ...string) Option {
	return func(hc *HostContext) {
		hc.Env = append(hc.Env, env...)
	}
}

// WithSpawnRate limits process spawning to perSecond, with the given burst.
// A non-positive rate removes the limit.
func WithSpawnRate(perSecond float64, burst int) Option {
	return func(hc *HostContext) {
		if perSecond <= 0 {
			hc.Limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		hc.Limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithMaxGlobMatches sets the glob cap.
func WithMaxGlobMatches(n int) Option {
	return func(hc *HostContext) {
		hc.MaxGlobMatches = n
	}
}

// WithMaxFileSize sets the per-file size cap.
func WithMaxFileSize(n int64) Option {
	return func(hc *HostContext) {
		hc.MaxFileSize = n
	}
}

// NewHostContext returns a context for the local host.
func NewHostContext(opts ...Option) *HostContext {
	hc := &HostContext{
		Root:           "/",
		Timeout:        defaults.CommandTimeout,
		MaxGlobMatches: defaults.MaxGlobMatches,
		MaxFileSize:    defaults.MaxFileSize,
	}
	for _, opt := range opts {
		opt(hc)
	}
	return hc
}

// Resolve joins path onto the context root.
func (hc *HostContext) Resolve(path string) string {
	if hc.Root == "" || hc.Root == "/" {
		return filepath.Clean(path)
	}
	return filepath.Join(hc.Root, path)
}

// waitSpawn blocks until the limiter allows a new process.
func (hc *HostContext) waitSpawn(ctx context.Context) error {
	if hc.Limiter == nil {
		return nil
	}
	if err := hc.Limiter.Wait(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, "waiting to spawn command", err)
	}
	return nil
}

// HostContextComponent provides the HostContext to every provider built by
// Spec. Collection pipelines usually seed it with their own context; when it
// runs unseeded it yields NewHostContext().
var HostContextComponent = engine.New("host_context", engine.KindDatasource,
	func(context.Context, *engine.Call) (any, error) {
		return NewHostContext(), nil
	})

// FromCall returns the HostContext visible to a component invocation.
func FromCall(call *engine.Call) (*HostContext, error) {
	v, ok := call.Get(HostContextComponent)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "host context not available")
	}
	hc, ok := v.(*HostContext)
	if !ok || hc == nil {
		return nil, errors.Newf(errors.ErrCodeInternal, "host context has unexpected type %T", v)
	}
	return hc, nil
}
