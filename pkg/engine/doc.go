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

// Package engine resolves and executes a declarative graph of interdependent
// components.
//
// # Components
//
// A Component is a named unit of work: a datasource that produces content, a
// parser that interprets it, or a combiner that merges several inputs. Each
// component declares the components it requires and those it can optionally
// use. Components are registered once, explicitly, in a Catalog:
//
//	cat := engine.NewCatalog()
//	hostname := engine.New("hostname", engine.KindDatasource, readHostname)
//	report := engine.New("report", engine.KindCombiner, buildReport,
//	    engine.Requires(hostname),
//	)
//	cat.MustRegister(hostname)
//	cat.MustRegister(report)
//
// # Graph
//
// Build validates a component set (unique names, resolvable dependencies, no
// cycles) and computes a deterministic topological order. Structural errors
// are returned before anything runs.
//
// # Broker and Scheduler
//
// A Broker is created per run and records, for each component, its value,
// its failures with traces, or the reason it was skipped. The Scheduler walks
// the graph and applies these rules to each component in dependency order:
//
//   - a component whose required dependency was skipped or failed is skipped
//     and never invoked
//   - a filterable component without registered filters fails without being
//     invoked
//   - a component whose body returns an error or panics fails; the run goes on
//   - otherwise its value is stored
//
// No component failure aborts a run. The caller always receives a complete
// Broker and a Summary of executed, failed and skipped components.
//
// Two modes are supported: Serial, which is fully deterministic, and
// Parallel, which executes independent components on a bounded worker pool
// while dependent components still run in order.
package engine
