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

// Package manifest loads the YAML collection manifest.
//
// A manifest sets the host context, the blacklist, the run strategy, which
// catalog components are enabled and the filter patterns of filterable
// components:
//
//	version: 0
//	client:
//	  context: {timeout: 5, root: /}
//	  blacklist: {files: [], commands: [], patterns: [], keywords: []}
//	  run_strategy: {name: parallel, args: {max_workers: 4}}
//	plugins:
//	  default_component_enabled: true
//	  configs: [{name: uptime, enabled: false}]
//	filters: {sysctl: ["kernel."]}
//
// Unknown fields are rejected. run_strategy.args are decoded per strategy
// and unknown arguments are rejected as well.
package manifest
