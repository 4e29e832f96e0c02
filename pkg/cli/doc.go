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

// Package cli implements the nodediag command-line interface.
//
// # Overview
//
// nodediag resolves a graph of diagnostic components on the local host and
// writes what they collect to an archive directory. The command line is a
// thin layer: it loads a manifest, applies flag overrides and hands a
// configured collector.Collector to the chosen command.
//
// # Commands
//
// collect - Run the enabled components and write the archive:
//
//	nodediag collect [--manifest m.yaml] [--filters f.yaml] [--output dir]
//
// The archive contains meta_data/<component>.json for every datasource,
// data/<path> for collected content, parsed/<component>.json for parser and
// combiner values and summary.json. The run summary is also written to
// stdout or --summary in the selected --format.
//
// specs - List the registered components with their kind, flags and dependencies:
//
//	nodediag specs --format yaml
//
// graph - Print the components a collection would resolve, in order:
//
//	nodediag graph --only installed_packages
//
// serve - Collect on request over HTTP (see package server):
//
//	nodediag serve --port 8080 --output /var/lib/nodediag
//
// # Global Flags
//
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output Formats
//
// Table (default):
//   - One row per component with state, duration and error
//   - Suitable for terminal viewing
//
// YAML and JSON:
//   - The full document with header, run ID and per-component status
//   - Suitable for programmatic consumption
//
// # Environment Variables
//
// Every flag has a NODEDIAG_<FLAG> counterpart, for example NODEDIAG_MANIFEST,
// NODEDIAG_MODE or NODEDIAG_ONLY. LOG_LEVEL is also honored.
//
// # Exit Codes
//
//	0  Success, including runs where individual components failed
//	1  Invalid arguments, manifest errors or a failure to write the archive
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/node-diagnostics/pkg/cli.version=1.0.0'"
package cli
