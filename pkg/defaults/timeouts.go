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

package defaults

import "time"

// Provider limits applied while invoking content providers.
const (
	// CommandTimeout is the default timeout for a single subprocess.
	CommandTimeout = 10 * time.Second

	// MaxGlobMatches caps the number of files a glob provider may collect.
	// Exceeding it fails the component instead of truncating.
	MaxGlobMatches = 1000

	// MaxFileSize is the largest file a file provider will read.
	MaxFileSize = 64 << 20

	// MaxRelativePathLength bounds the mangled name of a command result.
	MaxRelativePathLength = 255
)

// Scheduler settings.
const (
	// DefaultWorkers is the pool width used by the bounded-parallel mode
	// when none is configured.
	DefaultWorkers = 4
)

// CLI timeouts for command-line operations.
const (
	// CLICollectTimeout is the default deadline for a whole collection run.
	CLICollectTimeout = 5 * time.Minute

	// LockRetryDelay is the delay between attempts to lock the output directory.
	LockRetryDelay = 200 * time.Millisecond

	// LockTimeout is how long a run waits for another run to release the output directory.
	LockTimeout = 30 * time.Second
)

// Server timeouts for the serve command.
const (
	// ServerCollectTimeout is the deadline of a collection triggered over HTTP.
	ServerCollectTimeout = 2 * time.Minute

	// ServerReadTimeout is the maximum duration for reading the entire request.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration before timing out writes of the response.
	// It must outlast ServerCollectTimeout.
	ServerWriteTimeout = ServerCollectTimeout + 30*time.Second

	// ServerIdleTimeout is the maximum time to wait for the next request.
	ServerIdleTimeout = 5 * time.Minute

	// ServerShutdownTimeout is the maximum time to wait for in-flight requests on shutdown.
	ServerShutdownTimeout = 30 * time.Second

	// ServerCollectInterval is the minimum spacing of collections started over HTTP.
	ServerCollectInterval = 10 * time.Second
)

// ServerCollectBurst is how many collections may start back to back before
// ServerCollectInterval applies.
const ServerCollectBurst = 2
