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

// Package filters holds the line-keep patterns registered for filterable
// components.
//
// A component flagged filterable may only be collected when at least one
// pattern is registered for it. When patterns exist, collected content is
// reduced to the lines that contain at least one pattern as a plain substring
// before a result is built. Patterns are literal text: a pattern such as
// "--quiet" is matched as-is and never interpreted as an option.
//
// Registration happens before a run. The scheduler takes a Snapshot when a
// run starts, so patterns added while a run is in progress only take effect
// for the next run.
//
// Usage:
//
//	filters.Add("sysctl", "kernel.", "vm.")
//	lines = filters.Apply(lines, filters.Patterns("sysctl"))
//
// Filter files are YAML maps of component name to pattern list:
//
//	sysctl:
//	  - kernel.
//	  - vm.
//	messages:
//	  - "kernel:"
package filters
