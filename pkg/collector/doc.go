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

// Package collector runs a complete collection on the local host and
// persists the outcome as an archive directory.
//
// A collection resolves the enabled components of a catalog with an
// engine.Scheduler, then writes, for every datasource:
//
//	<output>/<archive>/meta_data/<component>.json
//	<output>/<archive>/data/<relative_path>
//
// The metadata record names the component, its results (or null) and the
// errors recorded for it. Data files hold the filtered content after
// redaction; content flagged no_redact is written as collected.
//
// Usage:
//
//	c := &collector.Collector{
//		Version:   version,
//		OutputDir: "/var/tmp",
//	}
//	res, err := c.Collect(ctx)
//
// Only structural and I/O problems are returned as errors. Component
// failures are part of the Result and never abort the collection.
//
// Concurrent collections into the same output directory are serialized
// with a file lock.
package collector
