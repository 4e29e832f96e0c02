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

// Package defaults provides centralized configuration constants for nodediag.
//
// This package defines timeout values, result caps, and worker settings used
// across the collector. Centralizing these values ensures consistency and
// makes tuning easier.
//
// # Categories
//
//   - Provider limits: per-command timeout, glob result cap, maximum file size
//   - Scheduler settings: default worker pool width
//   - CLI timeouts: overall collection deadline imposed by the command line
//   - Server timeouts: HTTP read/write/idle/shutdown and the per-request collection deadline
//
// # Usage
//
//	import "github.com/NVIDIA/node-diagnostics/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CommandTimeout)
//	defer cancel()
//
// Provider timeouts apply to one component at a time and convert into a
// failed component, never into a failed run.
package defaults
