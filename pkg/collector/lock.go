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

package collector

import (
	"context"
	"time"

	"github.com/gofrs/flock"

	"github.com/NVIDIA/node-diagnostics/pkg/defaults"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// LockFileName is created in the output directory while a collection runs.
const LockFileName = ".nodediag.lock"

// Lockfile guards an output directory against concurrent collections.
type Lockfile struct {
	*flock.Flock
}

// NewLockfile returns an unlocked lock on path.
func NewLockfile(path string) *Lockfile {
	return &Lockfile{flock.New(path)}
}

// Lock retries until the lock is held, ctx is done or the timeout elapses.
func (l *Lockfile) Lock(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaults.LockTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := l.TryLockContext(ctx, defaults.LockRetryDelay)
	if err != nil || !locked {
		return errors.WrapWithContext(errors.ErrCodeTimeout, "output directory is locked by another collection", err,
			map[string]any{"lockfile": l.Path()})
	}
	return nil
}

// Unlock releases the lock if held.
func (l *Lockfile) Unlock() error {
	if !l.Locked() {
		return nil
	}
	return l.Flock.Unlock()
}
